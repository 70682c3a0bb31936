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

// Package cstruct parses flat C struct definitions into a small model and
// classifies every declaration it sees.
package cstruct

import "sort"

// 📊 Status classifies how well a declaration was understood
type Status int

const (
	StatusConverted    Status = iota // fully understood
	StatusNeedsReview                // converted, but relies on a guess
	StatusUnrecognized               // left out of the model
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusConverted:
		return "converted"
	case StatusNeedsReview:
		return "needs-review"
	case StatusUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// 📝 LineReport describes one declaration in the source
type LineReport struct {
	Line   int    // 1-based source line
	Text   string // trimmed source line
	Status Status
	Reason string // empty when Status is StatusConverted
}

// 🧱 Field is a single struct member
type Field struct {
	Name  string   // member name
	CType string   // C type words, space separated
	Type  string   // resolved Rust element type
	Dims  []string // array dimensions, outermost first
	Line  int
}

// RustType returns the element type wrapped in one fixed-size array per
// dimension, so m[2][3] of i32 becomes [[i32; 3]; 2].
func (f *Field) RustType() string {
	t := f.Type
	for i := len(f.Dims) - 1; i >= 0; i-- {
		t = "[" + t + "; " + f.Dims[i] + "]"
	}
	return t
}

// 🏗️ Struct is a parsed struct definition
type Struct struct {
	Name   string
	Align  int // from a preceding #pragma pack(N); zero when absent
	Fields []*Field
	Line   int
}

// 📚 File is everything Parse found in one document
type File struct {
	Structs []*Struct
	Lines   []LineReport
}

// 📈 Summary counts line reports by status
type Summary struct {
	Converted    int
	NeedsReview  int
	Unrecognized int
}

// Summary counts the file's line reports by status
func (f *File) Summary() Summary {
	var s Summary
	for _, l := range f.Lines {
		switch l.Status {
		case StatusConverted:
			s.Converted++
		case StatusNeedsReview:
			s.NeedsReview++
		case StatusUnrecognized:
			s.Unrecognized++
		}
	}
	return s
}

// HasUnrecognized reports whether anything was left out of the model
func (f *File) HasUnrecognized() bool {
	return f.Summary().Unrecognized > 0
}

func (f *File) sortLines() {
	sort.SliceStable(f.Lines, func(i, j int) bool {
		return f.Lines[i].Line < f.Lines[j].Line
	})
}
