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

// Package render prints a cstruct model as Rust source.
package render

import (
	"fmt"
	"strings"

	"github.com/walteh/structrs/pkg/cstruct"
	"github.com/walteh/structrs/pkg/rules"
)

const indent = "    "

// Rust renders every struct in file, separated by blank lines. Fields are
// public and keep their declaration order.
func Rust(file *cstruct.File, types rules.TypeMap) string {
	var b strings.Builder
	for i, s := range file.Structs {
		if i > 0 {
			b.WriteString("\n")
		}
		writeStruct(&b, s, types)
	}
	return b.String()
}

func writeStruct(b *strings.Builder, s *cstruct.Struct, types rules.TypeMap) {
	if s.Align > 0 {
		fmt.Fprintf(b, "#[repr(align(%d))]\n", s.Align)
	}
	for _, attr := range types.Attributes() {
		b.WriteString(attr)
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "pub struct %s {\n", s.Name)
	for _, f := range s.Fields {
		fmt.Fprintf(b, "%spub %s: %s,\n", indent, fieldName(f.Name), f.RustType())
	}
	b.WriteString("}\n")
}

func fieldName(name string) string {
	switch name {
	case "self", "Self", "super", "crate":
		// cannot be raw identifiers
		return name + "_"
	}
	if isKeyword(name) {
		return "r#" + name
	}
	return name
}

func isKeyword(name string) bool {
	switch name {
	case "as", "async", "await", "box", "break", "const", "continue", "dyn", "else", "enum",
		"extern", "false", "fn", "for", "if", "impl", "in", "let", "loop", "match", "mod",
		"move", "mut", "pub", "ref", "return", "static", "struct", "trait", "true", "type",
		"unsafe", "use", "where", "while", "yield":
		return true
	}
	return false
}
