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
	"regexp"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule is a single pattern substitution applied to a whole document
type Rule struct {
	// Name identifies the rule in reports and logs
	Name string

	// Pattern is matched globally against the current buffer
	Pattern *regexp.Regexp

	// Template is the replacement, referencing groups as ${1}, ${2}, ...
	Template string
}

// 🏭 New compiles a rule
func New(name, pattern, template string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, errors.Errorf("compiling rule %q: %w", name, err)
	}
	return Rule{Name: name, Pattern: re, Template: template}, nil
}

// MustNew is like New but panics if the pattern does not compile
func MustNew(name, pattern, template string) Rule {
	r, err := New(name, pattern, template)
	if err != nil {
		panic(err)
	}
	return r
}

// Apply rewrites every non-overlapping match in src and returns the new
// text with the number of matches rewritten.
func (r Rule) Apply(src string) (string, int) {
	n := len(r.Pattern.FindAllStringIndex(src, -1))
	if n == 0 {
		return src, 0
	}
	return r.Pattern.ReplaceAllString(src, r.Template), n
}

// 📊 Application records how many matches one rule rewrote
type Application struct {
	Rule  string
	Count int
}

// 📦 Result contains the outcome of running a pipeline over a document
type Result struct {
	// Original is the text before any rule ran
	Original string

	// Modified is the text after the last rule ran
	Modified string

	// Applications has one entry per rule, in pipeline order
	Applications []Application

	// ReplacementCount is the sum of all application counts
	ReplacementCount int
}

// WasModified reports whether the pipeline changed the document
func (r *Result) WasModified() bool {
	return r.Original != r.Modified
}

// 🔗 Pipeline is an ordered list of rules. Each rule sees the output of
// every rule before it, so order is part of the behaviour.
type Pipeline []Rule

// Apply runs every rule over src in order
func (p Pipeline) Apply(src string) string {
	for _, r := range p {
		src, _ = r.Apply(src)
	}
	return src
}

// RunString runs the pipeline over src, recording per-rule application
// counts.
func (p Pipeline) RunString(ctx context.Context, src string) *Result {
	logger := zerolog.Ctx(ctx)

	result := &Result{
		Original:     src,
		Applications: make([]Application, 0, len(p)),
	}

	current := src
	for _, r := range p {
		var n int
		current, n = r.Apply(current)
		result.Applications = append(result.Applications, Application{Rule: r.Name, Count: n})
		result.ReplacementCount += n

		logger.Trace().Str("rule", r.Name).Int("count", n).Msg("applied rule")
	}

	result.Modified = current
	return result
}

// Names returns the rule names in pipeline order
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, r := range p {
		names[i] = r.Name
	}
	return names
}

// Validate checks that every rule is usable and uniquely named
func (p Pipeline) Validate() error {
	seen := make(map[string]bool, len(p))
	for i, r := range p {
		if r.Name == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if r.Pattern == nil {
			return errors.Errorf("rule %d (%s): pattern is required", i, r.Name)
		}
		if seen[r.Name] {
			return errors.Errorf("rule %d: duplicate name %q", i, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}
