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

package convert

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/structrs/pkg/config"
	"github.com/walteh/structrs/pkg/cstruct"
	"github.com/walteh/structrs/pkg/rules"
	"github.com/walteh/structrs/pkg/source"
	"github.com/walteh/structrs/pkg/status"
)

// ErrUnreadable marks every failure to read an input
var ErrUnreadable = errors.Base("input unreadable")

// ❌ UnreadableError is returned when an input cannot be read. It matches
// both ErrUnreadable and the underlying cause.
type UnreadableError struct {
	Input string
	Err   error
}

func (e *UnreadableError) Error() string {
	return "input unreadable: " + e.Err.Error()
}

func (e *UnreadableError) Unwrap() error { return e.Err }

func (e *UnreadableError) Is(target error) bool { return target == ErrUnreadable }

// 📦 Result describes one finished conversion
type Result struct {
	Input      string
	OutputPath string
	Text       string
	Status     status.FileStatus

	// Rules has per-rule counts when the rule engine ran
	Rules *rules.Result

	// Lines classifies every input line when the structured engine ran
	Lines []cstruct.LineReport
}

// Summary counts line classifications; zero for the rule engine
func (r *Result) Summary() cstruct.Summary {
	var s cstruct.Summary
	for _, l := range r.Lines {
		switch l.Status {
		case cstruct.StatusConverted:
			s.Converted++
		case cstruct.StatusNeedsReview:
			s.NeedsReview++
		case cstruct.StatusUnrecognized:
			s.Unrecognized++
		}
	}
	return s
}

// ⚙️ Options configures a Rewriter
type Options struct {
	Engine Engine
	Source source.Source
	Writer *status.Writer
	Suffix string

	// Stdout receives each converted text; nil prints nothing
	Stdout io.Writer
}

// 🔄 Rewriter reads headers, converts them and writes the results next
// to their inputs.
type Rewriter struct {
	engine Engine
	source source.Source
	writer *status.Writer
	suffix string
	stdout io.Writer
}

// 🏭 New creates a Rewriter, filling unset options with defaults
func New(opts Options) *Rewriter {
	r := &Rewriter{
		engine: opts.Engine,
		source: opts.Source,
		writer: opts.Writer,
		suffix: opts.Suffix,
		stdout: opts.Stdout,
	}
	if r.engine == nil {
		r.engine = &RuleEngine{pipeline: rules.DefaultPipeline()}
	}
	if r.source == nil {
		r.source = source.Local{}
	}
	if r.writer == nil {
		r.writer = status.NewWriter(0)
	}
	if r.suffix == "" {
		r.suffix = config.DefaultSuffix
	}
	return r
}

// Engine returns the engine the rewriter converts with
func (r *Rewriter) Engine() Engine { return r.engine }

// 🎯 Convert reads input, converts it, writes <path><suffix> and prints
// the converted text.
func (r *Rewriter) Convert(ctx context.Context, input string) (*Result, error) {
	result, err := r.process(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := r.print(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Transform converts input without writing or printing anything
func (r *Rewriter) Transform(ctx context.Context, input string) (*Result, error) {
	doc, err := r.open(ctx, input)
	if err != nil {
		return nil, err
	}
	return r.transform(ctx, doc)
}

func (r *Rewriter) open(ctx context.Context, input string) (*source.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("converting %s: %w", input, err)
	}
	doc, err := r.source.Open(ctx, input)
	if err != nil {
		return nil, &UnreadableError{Input: input, Err: err}
	}
	return doc, nil
}

func (r *Rewriter) transform(ctx context.Context, doc *source.Document) (*Result, error) {
	out, err := r.engine.Transform(ctx, string(doc.Content))
	if err != nil {
		return nil, errors.Errorf("converting %s: %w", doc.Ref, err)
	}

	result := &Result{
		Input:      doc.Ref,
		OutputPath: doc.Path + r.suffix,
		Text:       out.Text,
		Rules:      out.Rules,
	}
	if out.File != nil {
		result.Lines = out.File.Lines
	}
	return result, nil
}

func (r *Rewriter) process(ctx context.Context, input string) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("input", input).Str("engine", r.engine.Name()).Logger()

	doc, err := r.open(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err := r.transform(ctx, doc)
	if err != nil {
		return nil, err
	}

	result.Status, err = r.writer.Write(ctx, result.OutputPath, []byte(result.Text))
	if err != nil {
		return nil, errors.Errorf("writing %s: %w", result.OutputPath, err)
	}

	logger.Debug().
		Str("output", result.OutputPath).
		Str("status", result.Status.String()).
		Msg("converted")

	return result, nil
}

func (r *Rewriter) print(result *Result) error {
	if r.stdout == nil {
		return nil
	}
	if _, err := io.WriteString(r.stdout, result.Text); err != nil {
		return errors.Errorf("printing %s: %w", result.OutputPath, err)
	}
	return nil
}
