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
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Default rule names, in pipeline order.
const (
	RuleAlignment     = "alignment"
	RuleStructKeyword = "struct-keyword"
	RuleUint          = "uint"
	RuleIntFixed      = "int-fixed"
	RuleIntBare       = "int-bare"
	RuleChar          = "char"
	RuleShort         = "short"
	RuleFloat         = "float"
	RuleArray         = "array"
	RuleField         = "field"
	RuleBrace         = "brace"
)

// 🗺️ TypeMap holds the source-ABI assumptions the conversion makes.
// The zero value is not usable; start from DefaultTypeMap.
type TypeMap struct {
	Int        string // target for bare int
	Short      string // target for short
	Float      string // target for float
	CharPrefix string // charN_t becomes <CharPrefix>N
	Repr       string // argument of #[repr(...)] on every struct

	// Derives lists the traits put in #[derive(...)]; empty drops the line
	Derives []string

	// Extra maps further C type names to Rust types. Only the structured
	// engine consults it.
	Extra map[string]string
}

// DefaultTypeMap returns the stock mapping: int is i32, short is u16,
// float is f32 and charN_t is uN.
func DefaultTypeMap() TypeMap {
	return TypeMap{
		Int:        "i32",
		Short:      "u16",
		Float:      "f32",
		CharPrefix: "u",
		Repr:       "C",
		Derives:    []string{"Debug"},
		Extra: map[string]string{
			"char":               "i8",
			"signed char":        "i8",
			"unsigned char":      "u8",
			"unsigned short":     "u16",
			"unsigned":           "u32",
			"unsigned int":       "u32",
			"long":               "i64",
			"unsigned long":      "u64",
			"long long":          "i64",
			"unsigned long long": "u64",
			"double":             "f64",
			"bool":               "bool",
			"_Bool":              "bool",
			"size_t":             "usize",
		},
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that every mapped name is a plain identifier
func (m TypeMap) Validate() error {
	for key, val := range map[string]string{
		"int":         m.Int,
		"short":       m.Short,
		"float":       m.Float,
		"char_prefix": m.CharPrefix,
	} {
		if val == "" {
			return errors.Errorf("types.%s is required", key)
		}
		if !identRe.MatchString(val) {
			return errors.Errorf("types.%s: %q is not an identifier", key, val)
		}
	}
	if m.Repr == "" {
		return errors.Errorf("repr is required")
	}
	if strings.ContainsAny(m.Repr, "[]\n") {
		return errors.Errorf("repr: %q may not contain brackets or newlines", m.Repr)
	}
	for _, d := range m.Derives {
		if !identRe.MatchString(d) {
			return errors.Errorf("derives: %q is not an identifier", d)
		}
	}
	for c, rs := range m.Extra {
		if strings.TrimSpace(c) == "" || strings.TrimSpace(rs) == "" {
			return errors.Errorf("extra_types: empty entry %q = %q", c, rs)
		}
	}
	return nil
}

// Attributes returns the attribute lines placed before every struct
func (m TypeMap) Attributes() []string {
	attrs := []string{"#[repr(" + m.Repr + ")]"}
	if len(m.Derives) > 0 {
		attrs = append(attrs, "#[derive("+strings.Join(m.Derives, ", ")+")]")
	}
	return attrs
}

// Lookup resolves a space-normalised C type name through the map
func (m TypeMap) Lookup(ctype string) (string, bool) {
	switch ctype {
	case "int", "signed int", "signed":
		return m.Int, true
	case "short", "short int", "signed short":
		return m.Short, true
	case "float":
		return m.Float, true
	}
	rs, ok := m.Extra[ctype]
	return rs, ok
}

// Default builds the eleven-rule conversion pipeline for m. The order is
// fixed: later rules match shapes produced by earlier ones.
func Default(m TypeMap) (Pipeline, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Errorf("validating type map: %w", err)
	}

	structTemplate := escape(strings.Join(m.Attributes(), "\n")) + "\npub struct"

	specs := []struct {
		name, pattern, template string
	}{
		{RuleAlignment, `#pragma pack\((\d+)\)`, `#[repr(align(${1}))]`},
		{RuleStructKeyword, `struct`, structTemplate},
		{RuleUint, `uint(\d+)_t (\S+;)`, `u${1} ${2}`},
		{RuleIntFixed, `int(\d+)_t (\S+;)`, `i${1} ${2}`},
		{RuleIntBare, `int (\S+;)`, escape(m.Int) + ` ${1}`},
		{RuleChar, `char(\d+)_t (\S+;)`, escape(m.CharPrefix) + `${1} ${2}`},
		{RuleShort, `short (\S+;)`, escape(m.Short) + ` ${1}`},
		{RuleFloat, `float (\S+;)`, escape(m.Float) + ` ${1}`},
		{RuleArray, `(\S+) (\S+)\[(\d+)\];`, `[${1}; ${3}] ${2};`},
		{RuleField, `(\S+|\[.+\]) (\S+);`, `pub ${2}: ${1},`},
		{RuleBrace, `};`, `}`},
	}

	p := make(Pipeline, 0, len(specs))
	for _, s := range specs {
		p = append(p, MustNew(s.name, s.pattern, s.template))
	}
	return p, nil
}

// DefaultPipeline is Default(DefaultTypeMap())
func DefaultPipeline() Pipeline {
	p, err := Default(DefaultTypeMap())
	if err != nil {
		panic(err)
	}
	return p
}

// escape makes a literal safe to use inside a regexp replacement template
func escape(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
