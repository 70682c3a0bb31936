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

package cstruct

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/walteh/structrs/pkg/rules"
)

var (
	packRe     = regexp.MustCompile(`^#\s*pragma\s+pack\s*\(\s*(\d+)\s*\)$`)
	uintRe     = regexp.MustCompile(`^uint(\d+)_t$`)
	intRe      = regexp.MustCompile(`^int(\d+)_t$`)
	charRe     = regexp.MustCompile(`^char(\d+)_t$`)
	qualifiers = map[string]bool{"const": true, "volatile": true, "restrict": true}
)

var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "box": true, "break": true, "const": true, "continue": true,
	"crate": true, "dyn": true, "else": true, "enum": true, "extern": true, "false": true, "fn": true,
	"for": true, "if": true, "impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true, "return": true, "self": true,
	"Self": true, "static": true, "struct": true, "super": true, "trait": true, "true": true,
	"type": true, "unsafe": true, "use": true, "where": true, "while": true, "yield": true,
}

type parser struct {
	toks  []token
	pos   int
	lines []string
	types rules.TypeMap
	align int // pending #pragma pack value
	file  *File
}

// Parse builds a model of the struct definitions in src. It never fails:
// anything it cannot place in the model is reported in File.Lines.
func Parse(src string, types rules.TypeMap) *File {
	p := &parser{
		toks:  lex(src),
		lines: strings.Split(src, "\n"),
		types: types,
		file:  &File{},
	}

	for p.peek().kind != tokEOF {
		t := p.peek()
		switch {
		case t.kind == tokDirective:
			p.directive(p.next())
		case t.is("typedef") && p.peekAt(1).is("struct"):
			p.next()
			p.structDecl(true)
		case t.is("struct"):
			p.structDecl(false)
		default:
			p.skipStatement(t.line, "not a struct declaration")
		}
	}

	p.file.sortLines()
	return p.file
}

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.peek()
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) report(line int, status Status, reason string) {
	text := ""
	if line > 0 && line <= len(p.lines) {
		text = strings.TrimSpace(p.lines[line-1])
	}
	p.file.Lines = append(p.file.Lines, LineReport{Line: line, Text: text, Status: status, Reason: reason})
}

// skipStatement consumes tokens through the next top-level ';', keeping
// braces balanced, and reports the statement as unrecognized.
func (p *parser) skipStatement(line int, reason string) {
	depth := 0
	for {
		t := p.next()
		if t.kind == tokEOF {
			break
		}
		if t.is("{") {
			depth++
		}
		if t.is("}") && depth > 0 {
			depth--
		}
		if t.is(";") && depth == 0 {
			break
		}
	}
	p.report(line, StatusUnrecognized, reason)
}

func (p *parser) directive(t token) {
	m := packRe.FindStringSubmatch(t.text)
	if m == nil {
		p.report(t.line, StatusUnrecognized, "unsupported preprocessor directive")
		return
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		p.report(t.line, StatusUnrecognized, "pack value out of range")
		return
	}
	if n <= 0 || n&(n-1) != 0 {
		p.report(t.line, StatusUnrecognized, "pack value "+m[1]+" is not a power of two")
		return
	}
	p.align = n
	p.report(t.line, StatusConverted, "")
}

func (p *parser) structDecl(typedef bool) {
	start := p.next() // struct

	name := ""
	if p.peek().kind == tokIdent {
		name = p.next().text
	}
	if !p.peek().is("{") {
		p.skipStatement(start.line, "not a struct definition")
		return
	}
	p.next()

	s := &Struct{Name: name, Align: p.align, Line: start.line}
	p.align = 0

	closed := false
	for p.peek().kind != tokEOF {
		if p.peek().is("}") {
			p.next()
			closed = true
			break
		}
		p.field(s)
	}
	if !closed {
		p.report(start.line, StatusUnrecognized, "unterminated struct")
		return
	}

	var declarators []token
	for !p.peek().is(";") && p.peek().kind != tokEOF {
		declarators = append(declarators, p.next())
	}
	p.next() // ;

	status, reason := StatusConverted, ""
	switch {
	case typedef && len(declarators) == 1 && declarators[0].kind == tokIdent:
		if s.Name == "" {
			s.Name = declarators[0].text
		} else if s.Name != declarators[0].text {
			status, reason = StatusNeedsReview, "typedef alias "+declarators[0].text+" dropped"
		}
	case len(declarators) > 0:
		status, reason = StatusNeedsReview, "declarators after struct body dropped"
	}

	if s.Name == "" {
		p.report(start.line, StatusUnrecognized, "anonymous struct")
		return
	}

	p.report(start.line, status, reason)
	p.file.Structs = append(p.file.Structs, s)
}

func (p *parser) field(s *Struct) {
	first := p.peek()
	if first.kind == tokDirective {
		p.report(p.next().line, StatusUnrecognized, "preprocessor directive inside struct")
		return
	}

	var toks []token
	depth := 0
	terminated := false
loop:
	for {
		t := p.peek()
		if t.kind == tokEOF || (depth == 0 && t.is("}")) {
			break
		}
		p.next()
		switch {
		case t.is("{"):
			depth++
		case t.is("}"):
			depth--
		case t.is(";") && depth == 0:
			terminated = true
			break loop
		}
		toks = append(toks, t)
	}

	if len(toks) == 0 {
		if terminated {
			// stray ';'
			return
		}
		p.report(first.line, StatusUnrecognized, "empty declaration")
		return
	}

	if reason := unsupportedShape(toks, terminated); reason != "" {
		p.report(first.line, StatusUnrecognized, reason)
		return
	}

	i := 0
	var words []string
	for i < len(toks) && toks[i].kind == tokIdent {
		words = append(words, toks[i].text)
		i++
	}
	if len(words) < 2 {
		p.report(first.line, StatusUnrecognized, "expected a type and a name")
		return
	}

	f := &Field{Name: words[len(words)-1], Line: first.line}
	words = words[:len(words)-1]

	status, reason := StatusConverted, ""
	review := func(r string) {
		if status == StatusConverted {
			status, reason = StatusNeedsReview, r
		}
	}

	for i < len(toks) {
		if !toks[i].is("[") || i+2 >= len(toks) || !toks[i+2].is("]") {
			if toks[i].is("[") && i+1 < len(toks) && toks[i+1].is("]") {
				p.report(first.line, StatusUnrecognized, "flexible array member")
			} else {
				p.report(first.line, StatusUnrecognized, "unexpected "+strconv.Quote(toks[i].text))
			}
			return
		}
		dim := toks[i+1]
		if dim.kind != tokNumber {
			review("array size " + dim.text + " is not a literal")
		} else if _, err := strconv.ParseUint(dim.text, 0, 64); err != nil {
			review("array size " + dim.text + " is not a plain integer")
		}
		f.Dims = append(f.Dims, dim.text)
		i += 3
	}

	var ok bool
	f.CType, f.Type, ok = p.resolve(words)
	if f.CType == "" {
		p.report(first.line, StatusUnrecognized, "missing type")
		return
	}
	if !ok {
		review("unknown type " + f.CType)
	}
	if rustKeywords[f.Name] {
		review("field name " + f.Name + " is a Rust keyword")
	}

	p.report(first.line, status, reason)
	s.Fields = append(s.Fields, f)
}

// unsupportedShape names the first construct in a member declaration
// that the model cannot represent.
func unsupportedShape(toks []token, terminated bool) string {
	if toks[0].is("struct") || toks[0].is("union") {
		for _, t := range toks {
			if t.is("{") {
				return "nested " + toks[0].text
			}
		}
	}
	for _, t := range toks {
		switch {
		case t.is("{"):
			return "nested aggregate"
		case t.is(","):
			return "multiple declarators"
		case t.is(":"):
			return "bitfield"
		case t.is("("):
			return "function pointer"
		case t.is("*"):
			return "pointer field"
		}
	}
	if !terminated {
		return "missing semicolon"
	}
	return ""
}

// resolve maps C type words onto a Rust type. ok is false when the type
// had to be passed through verbatim.
func (p *parser) resolve(words []string) (ctype, rust string, ok bool) {
	var kept []string
	for _, w := range words {
		if !qualifiers[w] {
			kept = append(kept, w)
		}
	}
	ctype = strings.Join(kept, " ")

	if len(kept) == 2 {
		switch kept[0] {
		case "struct":
			return ctype, kept[1], true
		case "enum", "union":
			return ctype, kept[1], false
		}
	}

	if len(kept) == 1 {
		if m := uintRe.FindStringSubmatch(kept[0]); m != nil {
			return ctype, "u" + m[1], true
		}
		if m := intRe.FindStringSubmatch(kept[0]); m != nil {
			return ctype, "i" + m[1], true
		}
		if m := charRe.FindStringSubmatch(kept[0]); m != nil {
			return ctype, p.types.CharPrefix + m[1], true
		}
	}

	if rs, found := p.types.Lookup(ctype); found {
		return ctype, rs, true
	}
	return ctype, ctype, false
}
