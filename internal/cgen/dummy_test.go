package cgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erikas-taroza/flutter-rust-bridge/internal/config"
)

func singleModule() *config.Opts {
	return &config.Opts{
		ModuleID:     "P7C55DD6B",
		ClassName:    "ApiClass",
		COutputPaths: []string{"ios/Runner/bridge_generated.h"},
	}
}

func TestGenerateDummy_SingleModule(t *testing.T) {
	cfg := singleModule()

	out := GenerateDummy(cfg, []*config.Opts{cfg},
		[]string{"P7C55DD6B_wire_add", "P7C55DD6B_new_uint_8_list_0"}, 0)

	assert.Equal(t, `static int64_t P7C55DD6B_dummy_method_to_enforce_bundling(void) {
    int64_t dummy_var = 0;
    dummy_var ^= ((int64_t) (void*) P7C55DD6B_wire_add);
    dummy_var ^= ((int64_t) (void*) P7C55DD6B_new_uint_8_list_0);
    return dummy_var;
}
`, out)
}

func TestGenerateDummy_PrefixesBareWireNames(t *testing.T) {
	cfg := singleModule()

	out := GenerateDummy(cfg, []*config.Opts{cfg}, []string{"wire_add"}, 0)

	assert.Contains(t, out, "(void*) P7C55DD6B_wire_add);")
	assert.NotContains(t, out, "P7C55DD6B_P7C55DD6B", "prefixing must be idempotent")
}

func TestGenerateDummy_AlreadyPrefixedNamesPassThrough(t *testing.T) {
	cfg := singleModule()

	once := GenerateDummy(cfg, []*config.Opts{cfg}, []string{"P7C55DD6B_wire_add"}, 0)
	again := GenerateDummy(cfg, []*config.Opts{cfg}, []string{"P7C55DD6B_wire_add"}, 0)

	assert.Equal(t, once, again)
	assert.NotContains(t, once, "P7C55DD6B_P7C55DD6B")
}

func TestGenerateDummy_EveryNameAnchored(t *testing.T) {
	cfg := singleModule()
	names := []string{"wire_add", "wire_sub", "wire_mul"}

	out := GenerateDummy(cfg, []*config.Opts{cfg}, names, 0)

	for _, name := range names {
		assert.Contains(t, out, "P7C55DD6B_"+name)
	}

	// Dropping a name must change the anchor, otherwise the linker could
	// discard the dropped symbol without anything noticing.
	shorter := GenerateDummy(cfg, []*config.Opts{cfg}, names[:2], 0)
	assert.NotEqual(t, out, shorter)
	assert.NotContains(t, shorter, "wire_mul")
}

func multiModule() []*config.Opts {
	return []*config.Opts{
		{
			ModuleID:     "PAAAAAAA1",
			ClassName:    "ApiClass",
			BlockIndex:   0,
			COutputPaths: []string{"ios/Runner/bridge_generated.h"},
		},
		{
			ModuleID:     "PBBBBBBB2",
			ClassName:    "OtherClass",
			BlockIndex:   1,
			COutputPaths: []string{"ios/Other/other_generated.h"},
		},
	}
}

func TestGenerateDummy_AuxiliaryModuleGetsNamedAnchor(t *testing.T) {
	all := multiModule()

	out := GenerateDummy(all[1], all, []string{"wire_other"}, 0)

	assert.Contains(t, out,
		"static int64_t PBBBBBBB2_dummy_method_to_enforce_bundling_OtherClass(void)")
	assert.Contains(t, out, "(void*) PBBBBBBB2_wire_other);")
	assert.NotContains(t, out, "#include", "only the root module pulls in siblings")
}

func TestGenerateDummy_RootModuleEmitsUmbrella(t *testing.T) {
	all := multiModule()

	out := GenerateDummy(all[0], all, []string{"wire_add"}, 0)

	// Own named anchor.
	assert.Contains(t, out,
		"static int64_t PAAAAAAA1_dummy_method_to_enforce_bundling_ApiClass(void)")

	// Sibling header included relative to the root header's directory.
	assert.Contains(t, out, `#include "../Other/other_generated.h"`)

	// Umbrella anchor XORs every module's named anchor.
	require.Contains(t, out,
		"static int64_t PAAAAAAA1_dummy_method_to_enforce_bundling(void)")
	assert.Contains(t, out,
		"(void*) PAAAAAAA1_dummy_method_to_enforce_bundling_ApiClass);")
	assert.Contains(t, out,
		"(void*) PBBBBBBB2_dummy_method_to_enforce_bundling_OtherClass);")
}

func TestGenerateDummy_SiblingHeaderInSameDir(t *testing.T) {
	all := multiModule()
	all[1].COutputPaths = []string{"ios/Runner/other_generated.h"}

	out := GenerateDummy(all[0], all, []string{"wire_add"}, 0)

	assert.Contains(t, out, `#include "other_generated.h"`)
}
