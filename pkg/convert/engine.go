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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/structrs/pkg/config"
	"github.com/walteh/structrs/pkg/cstruct"
	"github.com/walteh/structrs/pkg/render"
	"github.com/walteh/structrs/pkg/rules"
)

// 📦 Output is what an engine produced for one document
type Output struct {
	Text string

	// Rules is set by the rule engine
	Rules *rules.Result

	// File is set by the structured engine
	File *cstruct.File
}

// 🔌 Engine turns C header text into Rust text
type Engine interface {
	Name() string
	Transform(ctx context.Context, src string) (*Output, error)
}

// 🔧 RuleEngine runs an ordered rule pipeline over the raw text
type RuleEngine struct {
	pipeline rules.Pipeline
}

// 🏭 NewRuleEngine creates a rule engine over pipeline
func NewRuleEngine(pipeline rules.Pipeline) (*RuleEngine, error) {
	if err := pipeline.Validate(); err != nil {
		return nil, errors.Errorf("validating rule pipeline: %w", err)
	}
	return &RuleEngine{pipeline: pipeline}, nil
}

// Name implements Engine
func (e *RuleEngine) Name() string { return config.EngineRules }

// Pipeline returns the rules the engine runs, in order
func (e *RuleEngine) Pipeline() rules.Pipeline { return e.pipeline }

// Transform implements Engine
func (e *RuleEngine) Transform(ctx context.Context, src string) (*Output, error) {
	result := e.pipeline.RunString(ctx, src)
	return &Output{Text: result.Modified, Rules: result}, nil
}

// 🌳 StructuredEngine parses struct declarations and prints them as Rust
type StructuredEngine struct {
	types rules.TypeMap
}

// 🏭 NewStructuredEngine creates a structured engine using types
func NewStructuredEngine(types rules.TypeMap) *StructuredEngine {
	return &StructuredEngine{types: types}
}

// Name implements Engine
func (e *StructuredEngine) Name() string { return config.EngineStructured }

// Transform implements Engine
func (e *StructuredEngine) Transform(ctx context.Context, src string) (*Output, error) {
	file := cstruct.Parse(src, e.types)

	summary := file.Summary()
	zerolog.Ctx(ctx).Debug().
		Int("structs", len(file.Structs)).
		Int("converted", summary.Converted).
		Int("needs_review", summary.NeedsReview).
		Int("unrecognized", summary.Unrecognized).
		Msg("parsed header")

	return &Output{Text: render.Rust(file, e.types), File: file}, nil
}

// NewEngine builds the engine a configuration asks for
func NewEngine(cfg *config.Config) (Engine, error) {
	types := cfg.TypeMap()
	switch cfg.Engine {
	case config.EngineRules, "":
		pipeline, err := rules.Default(types)
		if err != nil {
			return nil, errors.Errorf("building rule pipeline: %w", err)
		}
		return NewRuleEngine(pipeline)
	case config.EngineStructured:
		return NewStructuredEngine(types), nil
	default:
		return nil, errors.Errorf("unknown engine %q", cfg.Engine)
	}
}
