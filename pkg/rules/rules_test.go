// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundTrip = "struct Foo {\n  uint32_t a;\n  int16_t b;\n  float c[4];\n};"

func TestDefaultPipeline_Order(t *testing.T) {
	p := DefaultPipeline()
	require.NoError(t, p.Validate())
	assert.Equal(t, []string{
		RuleAlignment,
		RuleStructKeyword,
		RuleUint,
		RuleIntFixed,
		RuleIntBare,
		RuleChar,
		RuleShort,
		RuleFloat,
		RuleArray,
		RuleField,
		RuleBrace,
	}, p.Names(), "rule order should be fixed")
}

func TestDefaultPipeline_Apply(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "round_trip",
			input: roundTrip,
			want:  "#[repr(C)]\n#[derive(Debug)]\npub struct Foo {\n  pub a: u32,\n  pub b: i16,\n  pub c: [f32; 4],\n}",
		},
		{
			name:  "alignment_alone",
			input: "#pragma pack(4)",
			want:  "#[repr(align(4))]",
		},
		{
			name:  "alignment_value_kept_verbatim",
			input: "#pragma pack(3)\n",
			want:  "#[repr(align(3))]\n",
		},
		{
			name:  "bare_int_field",
			input: "int count;",
			want:  "pub count: i32,",
		},
		{
			name:  "short_drops_signedness",
			input: "short flag;",
			want:  "pub flag: u16,",
		},
		{
			name:  "char_width_becomes_unsigned",
			input: "char16_t w;",
			want:  "pub w: u16,",
		},
		{
			name:  "unknown_type_passes_through",
			input: "double ratio;",
			want:  "pub ratio: double,",
		},
		{
			name:  "multiple_declarators_largely_unconverted",
			input: "int x, y;",
			want:  "int pub y: x,,",
		},
		{
			name:  "non_ascii_array_size_left_as_field_name",
			input: "int b[٣];",
			want:  "pub b[٣]: i32,",
		},
		{
			name:  "no_match_is_noop",
			input: "hello world\n",
			want:  "hello world\n",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name: "packed_header",
			input: "#pragma pack(1)\nstruct Header {\n    uint8_t magic[4];\n    uint16_t version;\n" +
				"    int32_t offset;\n    int count;\n    char16_t glyph;\n    short flags;\n    float scale;\n};\n",
			want: "#[repr(align(1))]\n#[repr(C)]\n#[derive(Debug)]\npub struct Header {\n    pub magic: [u8; 4],\n" +
				"    pub version: u16,\n    pub offset: i32,\n    pub count: i32,\n    pub glyph: u16,\n" +
				"    pub flags: u16,\n    pub scale: f32,\n}\n",
		},
	}

	p := DefaultPipeline()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Apply(tt.input))
		})
	}
}

func TestDefaultPipeline_SingleRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  string
		input string
		want  string
	}{
		{name: "int_bare_is_32_bits", rule: RuleIntBare, input: "int count;", want: "i32 count;"},
		{name: "short_is_unsigned", rule: RuleShort, input: "short flag;", want: "u16 flag;"},
		{name: "float", rule: RuleFloat, input: "float scale;", want: "f32 scale;"},
		{name: "uint", rule: RuleUint, input: "uint64_t big;", want: "u64 big;"},
		{name: "int_fixed", rule: RuleIntFixed, input: "int8_t small;", want: "i8 small;"},
		{name: "char", rule: RuleChar, input: "char32_t cp;", want: "u32 cp;"},
		{name: "array", rule: RuleArray, input: "f32 c[4];", want: "[f32; 4] c;"},
		{name: "array_of_unrewritten_type", rule: RuleArray, input: "Vec3 pts[8];", want: "[Vec3; 8] pts;"},
		{name: "field", rule: RuleField, input: "u8 a;", want: "pub a: u8,"},
		{name: "field_of_array", rule: RuleField, input: "  [f32; 4] c;", want: "  pub c: [f32; 4],"},
		{name: "brace", rule: RuleBrace, input: "};", want: "}"},
		{name: "int_bare_requires_semicolon", rule: RuleIntBare, input: "int main(void)", want: "int main(void)"},
	}

	p := DefaultPipeline()
	byName := make(map[string]Rule, len(p))
	for _, r := range p {
		byName[r.Name] = r
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := byName[tt.rule]
			require.True(t, ok, "rule %s should exist", tt.rule)
			got, _ := r.Apply(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func swapped(p Pipeline, i, j int) Pipeline {
	out := make(Pipeline, len(p))
	copy(out, p)
	out[i], out[j] = out[j], out[i]
	return out
}

func TestDefaultPipeline_OrderSensitive(t *testing.T) {
	tests := []struct {
		name    string
		i, j    int
		fixture string
		want    string
	}{
		{name: "uint_before_int_fixed", i: 2, j: 3, fixture: "uint32_t a;", want: "pub a: ui32,"},
		{name: "float_before_array", i: 7, j: 8, fixture: "float c[4];", want: "pub c: [float; 4],"},
		{name: "int_bare_before_array", i: 4, j: 8, fixture: "int c[2];", want: "pub c: [int; 2],"},
		{name: "array_before_field", i: 8, j: 9, fixture: "float c[4];", want: "pub c[4]: f32,"},
		{name: "uint_before_field", i: 2, j: 9, fixture: "uint8_t a;", want: "pub a: uint8_t,"},
		{name: "field_before_brace", i: 9, j: 10, fixture: "x };", want: "x }"},
	}

	p := DefaultPipeline()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical := p.Apply(tt.fixture)
			reordered := swapped(p, tt.i, tt.j).Apply(tt.fixture)
			assert.NotEqual(t, canonical, reordered, "swapping rules %d and %d should be detectable", tt.i, tt.j)
			assert.Equal(t, tt.want, reordered)
		})
	}
}

func TestDefaultPipeline_NotIdempotent(t *testing.T) {
	p := DefaultPipeline()

	once := p.Apply(roundTrip)
	twice := p.Apply(once)

	assert.NotEqual(t, once, twice, "a second pass should not be a no-op")
	assert.Equal(t, 2, strings.Count(twice, "#[repr(C)]"), "struct keyword should be annotated again")
	assert.Contains(t, twice, "  pub a: u32,\n", "scalar field lines should survive a second pass")
	assert.Contains(t, twice, "  pub b: i16,\n", "scalar field lines should survive a second pass")
	assert.NotContains(t, twice, "pub c: [f32; 4],", "array field lines are rewritten again")
}

func TestPipeline_RunString(t *testing.T) {
	p := DefaultPipeline()

	result := p.RunString(context.Background(), roundTrip)
	require.Len(t, result.Applications, len(p))

	counts := make(map[string]int, len(result.Applications))
	for _, a := range result.Applications {
		counts[a.Rule] = a.Count
	}

	assert.Equal(t, 0, counts[RuleAlignment])
	assert.Equal(t, 1, counts[RuleStructKeyword])
	assert.Equal(t, 1, counts[RuleUint])
	assert.Equal(t, 1, counts[RuleIntFixed])
	assert.Equal(t, 1, counts[RuleFloat])
	assert.Equal(t, 1, counts[RuleArray])
	assert.Equal(t, 3, counts[RuleField])
	assert.Equal(t, 1, counts[RuleBrace])
	assert.Equal(t, 9, result.ReplacementCount)
	assert.True(t, result.WasModified())
	assert.Equal(t, roundTrip, result.Original)
	assert.Equal(t, p.Apply(roundTrip), result.Modified)
}

func TestPipeline_RunString_NoMatch(t *testing.T) {
	p := DefaultPipeline()
	result := p.RunString(context.Background(), "nothing here")
	assert.False(t, result.WasModified())
	assert.Equal(t, 0, result.ReplacementCount)
}

func TestPipeline_Validate(t *testing.T) {
	tests := []struct {
		name      string
		pipeline  Pipeline
		wantError string
	}{
		{
			name:     "valid",
			pipeline: Pipeline{MustNew("a", "a", "b")},
		},
		{
			name:      "missing_name",
			pipeline:  Pipeline{MustNew("", "a", "b")},
			wantError: "name is required",
		},
		{
			name:      "missing_pattern",
			pipeline:  Pipeline{{Name: "a"}},
			wantError: "pattern is required",
		},
		{
			name:      "duplicate_name",
			pipeline:  Pipeline{MustNew("a", "a", "b"), MustNew("a", "c", "d")},
			wantError: "duplicate name",
		},
		{
			name:     "empty",
			pipeline: Pipeline{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pipeline.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New("broken", `(`, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `compiling rule "broken"`)
}

func TestDefault_TypeMapOverrides(t *testing.T) {
	m := DefaultTypeMap()
	m.Short = "i16"
	m.Int = "i64"
	m.Derives = []string{"Debug", "Clone", "Copy"}

	p, err := Default(m)
	require.NoError(t, err)

	got := p.Apply("struct S {\n    short s;\n    int i;\n};\n")
	assert.Equal(t, "#[repr(C)]\n#[derive(Debug, Clone, Copy)]\npub struct S {\n    pub s: i16,\n    pub i: i64,\n}\n", got)
}

func TestDefault_NoDerives(t *testing.T) {
	m := DefaultTypeMap()
	m.Derives = nil

	p, err := Default(m)
	require.NoError(t, err)
	assert.Equal(t, "#[repr(C)]\npub struct S {\n}", p.Apply("struct S {\n};"))
}

func TestTypeMap_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m *TypeMap)
		wantError string
	}{
		{name: "default", mutate: func(m *TypeMap) {}},
		{name: "empty_int", mutate: func(m *TypeMap) { m.Int = "" }, wantError: "types.int is required"},
		{name: "template_injection", mutate: func(m *TypeMap) { m.Float = "${1}" }, wantError: "types.float"},
		{name: "bad_derive", mutate: func(m *TypeMap) { m.Derives = []string{"Clone, Copy"} }, wantError: "derives"},
		{name: "bad_repr", mutate: func(m *TypeMap) { m.Repr = "C)]\n" }, wantError: "repr"},
		{name: "empty_extra", mutate: func(m *TypeMap) { m.Extra = map[string]string{"double": ""} }, wantError: "extra_types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultTypeMap()
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTypeMap_Lookup(t *testing.T) {
	m := DefaultTypeMap()

	got, ok := m.Lookup("int")
	assert.True(t, ok)
	assert.Equal(t, "i32", got)

	got, ok = m.Lookup("unsigned char")
	assert.True(t, ok)
	assert.Equal(t, "u8", got)

	_, ok = m.Lookup("struct_thing")
	assert.False(t, ok)
}
