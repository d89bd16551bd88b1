// Package target models the two execution environments generated code is
// emitted for, plus the per-target fragment accumulator.
package target

// Target identifies one execution environment for generated code.
type Target int

const (
	// Io is the natively-compiled target: thread-pool execution, i64 port
	// identifiers as the response channel.
	Io Target = iota

	// Wasm is the script-engine-hosted target: single-threaded, MessagePort
	// objects as the response channel.
	Wasm

	// Common marks output shared by both targets.
	Common
)

// String returns the lowercase name used in log output and file suffixes.
func (t Target) String() string {
	switch t {
	case Io:
		return "io"
	case Wasm:
		return "wasm"
	case Common:
		return "common"
	default:
		return "unknown"
	}
}

// Acc holds one fragment of generated output per target plus an optional
// shared fragment. The zero value means "no output for any target" and is
// never an error.
type Acc[T any] struct {
	Common T
	Io     T
	Wasm   T
}

// Distribute returns an Acc carrying the same fragment for both concrete
// targets, with no shared fragment.
func Distribute[T any](v T) Acc[T] {
	return Acc[T]{Io: v, Wasm: v}
}

// Get returns the fragment for the given target.
func (a Acc[T]) Get(t Target) T {
	switch t {
	case Io:
		return a.Io
	case Wasm:
		return a.Wasm
	default:
		return a.Common
	}
}

// Join concatenates same-named slots across accumulators, separating
// non-empty fragments with sep. Empty fragments are skipped so a missing
// slot contributes nothing.
func Join(accs []Acc[string], sep string) Acc[string] {
	var out Acc[string]
	out.Common = joinSlot(accs, Common, sep)
	out.Io = joinSlot(accs, Io, sep)
	out.Wasm = joinSlot(accs, Wasm, sep)
	return out
}

func joinSlot(accs []Acc[string], t Target, sep string) string {
	var s string
	for _, a := range accs {
		frag := a.Get(t)
		if frag == "" {
			continue
		}
		if s != "" {
			s += sep
		}
		s += frag
	}
	return s
}
