package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/structrs/pkg/cstruct"
	"github.com/walteh/structrs/pkg/rules"
)

func TestRust(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "round_trip",
			input: "struct Foo {\n  uint32_t a;\n  int16_t b;\n  float c[4];\n};",
			want:  "#[repr(C)]\n#[derive(Debug)]\npub struct Foo {\n    pub a: u32,\n    pub b: i16,\n    pub c: [f32; 4],\n}\n",
		},
		{
			name:  "aligned",
			input: "#pragma pack(8)\nstruct P {\n    double d;\n};\n",
			want:  "#[repr(align(8))]\n#[repr(C)]\n#[derive(Debug)]\npub struct P {\n    pub d: f64,\n}\n",
		},
		{
			name:  "zero_pack_not_aligned",
			input: "#pragma pack(0)\nstruct P {\n    int a;\n};\n",
			want:  "#[repr(C)]\n#[derive(Debug)]\npub struct P {\n    pub a: i32,\n}\n",
		},
		{
			name:  "qualifier_only_field_dropped",
			input: "struct Q {\n    const volatile x;\n    int y;\n};\n",
			want:  "#[repr(C)]\n#[derive(Debug)]\npub struct Q {\n    pub y: i32,\n}\n",
		},
		{
			name:  "unsupported_fields_dropped",
			input: "struct S {\n    int x, y;\n    char *name;\n    short ok;\n};\n",
			want:  "#[repr(C)]\n#[derive(Debug)]\npub struct S {\n    pub ok: u16,\n}\n",
		},
		{
			name:  "keyword_fields",
			input: "struct K {\n    int type;\n    int self;\n};\n",
			want:  "#[repr(C)]\n#[derive(Debug)]\npub struct K {\n    pub r#type: i32,\n    pub self_: i32,\n}\n",
		},
		{
			name:  "two_structs",
			input: "struct A {\n    int a;\n};\nstruct B {\n    int b;\n};\n",
			want: "#[repr(C)]\n#[derive(Debug)]\npub struct A {\n    pub a: i32,\n}\n\n" +
				"#[repr(C)]\n#[derive(Debug)]\npub struct B {\n    pub b: i32,\n}\n",
		},
		{
			name:  "nothing",
			input: "int x;\n",
			want:  "",
		},
	}

	types := rules.DefaultTypeMap()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := cstruct.Parse(tt.input, types)
			assert.Equal(t, tt.want, Rust(file, types))
		})
	}
}

func TestRust_Attributes(t *testing.T) {
	types := rules.DefaultTypeMap()
	types.Repr = "C, packed"
	types.Derives = []string{"Clone", "Copy"}

	file := cstruct.Parse("struct S {\n    uint8_t b;\n};", types)
	assert.Equal(t, "#[repr(C, packed)]\n#[derive(Clone, Copy)]\npub struct S {\n    pub b: u8,\n}\n", Rust(file, types))
}
