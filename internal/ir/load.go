package ir

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is one pre-built IR compilation unit as produced by the external
// source parser.
type File struct {
	Funcs []Func
	Types []Type
}

// rawFile mirrors the on-disk YAML shape before type resolution.
type rawFile struct {
	Funcs []rawFunc  `yaml:"funcs"`
	Types []typeSpec `yaml:"types"`
}

type rawFunc struct {
	Name   string     `yaml:"name"`
	Inputs []rawField `yaml:"inputs"`
	Output *typeSpec  `yaml:"output"`
}

type rawField struct {
	Name string   `yaml:"name"`
	Type typeSpec `yaml:"type"`
}

// typeSpec is the tagged on-disk form of a Type. Kind selects the variant;
// the remaining fields apply only to the kinds that use them.
type typeSpec struct {
	Kind        string     `yaml:"kind"`
	Inner       *typeSpec  `yaml:"inner,omitempty"`
	Name        string     `yaml:"name,omitempty"`
	WrapperName string     `yaml:"wrapper_name,omitempty"`
	Variants    []string   `yaml:"variants,omitempty"`
	Repr        string     `yaml:"repr,omitempty"`
	Variant     string     `yaml:"variant,omitempty"`
	Fields      []rawField `yaml:"fields,omitempty"`
}

var primitiveKinds = map[string]PrimitiveKind{
	"u8": U8, "i8": I8, "u16": U16, "i16": I16,
	"u32": U32, "i32": I32, "u64": U64, "i64": I64,
	"f32": F32, "f64": F64, "bool": Bool, "usize": Usize,
}

var timeVariants = map[string]TimeVariant{
	"naive":    TimeNaive,
	"utc":      TimeUtc,
	"local":    TimeLocal,
	"duration": TimeDuration,
}

func (s *typeSpec) resolve() (Type, error) {
	if kind, ok := primitiveKinds[s.Kind]; ok {
		return Primitive{Kind: kind}, nil
	}

	switch s.Kind {
	case "string":
		return DelegateString{}, nil
	case "string_list":
		return DelegateStringList{}, nil
	case "zero_copy_buffer":
		if s.Inner == nil {
			return nil, fmt.Errorf("zero_copy_buffer requires inner primitive")
		}
		kind, ok := primitiveKinds[s.Inner.Kind]
		if !ok {
			return nil, fmt.Errorf("zero_copy_buffer inner must be primitive, got %q", s.Inner.Kind)
		}
		return DelegateZeroCopyBuffer{Inner: kind}, nil
	case "primitive_list":
		if s.Inner == nil {
			return nil, fmt.Errorf("primitive_list requires inner primitive")
		}
		kind, ok := primitiveKinds[s.Inner.Kind]
		if !ok {
			return nil, fmt.Errorf("primitive_list inner must be primitive, got %q", s.Inner.Kind)
		}
		return PrimitiveList{Kind: kind}, nil
	case "list":
		if s.Inner == nil {
			return nil, fmt.Errorf("list requires inner type")
		}
		inner, err := s.Inner.resolve()
		if err != nil {
			return nil, err
		}
		return GeneralList{Inner: inner}, nil
	case "enum":
		return EnumRef{Name: s.Name, WrapperName: s.WrapperName, Variants: s.Variants}, nil
	case "primitive_enum":
		repr, ok := primitiveKinds[s.Repr]
		if !ok {
			return nil, fmt.Errorf("primitive_enum %q: unknown repr %q", s.Name, s.Repr)
		}
		return DelegatePrimitiveEnum{
			Enum: EnumRef{Name: s.Name, WrapperName: s.WrapperName, Variants: s.Variants},
			Repr: Primitive{Kind: repr},
		}, nil
	case "time":
		variant, ok := timeVariants[s.Variant]
		if !ok {
			return nil, fmt.Errorf("time: unknown variant %q", s.Variant)
		}
		return DelegateTime{Variant: variant}, nil
	case "struct":
		fields, err := resolveFields(s.Fields)
		if err != nil {
			return nil, fmt.Errorf("struct %q: %w", s.Name, err)
		}
		return StructRef{Name: s.Name, Fields: fields}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", s.Kind)
	}
}

func resolveFields(raw []rawField) ([]Field, error) {
	var fields []Field
	for _, f := range raw {
		ty, err := f.Type.resolve()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fields = append(fields, Field{Name: f.Name, Type: ty})
	}
	return fields, nil
}

// LoadFile reads a pre-built IR file from disk.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read IR file: %w", err)
	}
	return Parse(data)
}

// Parse decodes IR YAML.
func Parse(data []byte) (*File, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse IR file: %w", err)
	}

	file := &File{}
	for _, rf := range raw.Funcs {
		inputs, err := resolveFields(rf.Inputs)
		if err != nil {
			return nil, fmt.Errorf("func %q: %w", rf.Name, err)
		}
		fn := Func{Name: rf.Name, Inputs: inputs}
		if rf.Output != nil {
			out, err := rf.Output.resolve()
			if err != nil {
				return nil, fmt.Errorf("func %q output: %w", rf.Name, err)
			}
			fn.Output = out
		}
		file.Funcs = append(file.Funcs, fn)
	}
	for _, ts := range raw.Types {
		ty, err := ts.resolve()
		if err != nil {
			return nil, err
		}
		file.Types = append(file.Types, ty)
	}
	return file, nil
}

// DistinctTypes returns every type reachable from the file's functions and
// declared types, deduplicated by safe identifier, in first-seen order.
// Generators run once per distinct type.
func (f *File) DistinctTypes() []Type {
	seen := make(map[string]bool)
	var out []Type

	add := func(t Type) {
		if t == nil || seen[t.SafeIdent()] {
			return
		}
		seen[t.SafeIdent()] = true
		out = append(out, t)
	}

	for _, fn := range f.Funcs {
		for _, in := range fn.Inputs {
			add(in.Type)
		}
		add(fn.Output)
	}
	for _, t := range f.Types {
		add(t)
	}
	return out
}
