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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/structrs/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// Engines
const (
	EngineRules      = "rules"
	EngineStructured = "structured"
)

// DefaultSuffix is appended to the input path to name the output file
const DefaultSuffix = "_rust"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔢 Types overrides the built-in width and signedness assumptions
type Types struct {
	Int        string `json:"int,omitempty" yaml:"int,omitempty"`
	Short      string `json:"short,omitempty" yaml:"short,omitempty"`
	Float      string `json:"float,omitempty" yaml:"float,omitempty"`
	CharPrefix string `json:"char_prefix,omitempty" yaml:"char_prefix,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Suffix     string            `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Engine     string            `json:"engine,omitempty" yaml:"engine,omitempty"`
	Repr       string            `json:"repr,omitempty" yaml:"repr,omitempty"`
	Derives    []string          `json:"derives,omitempty" yaml:"derives,omitempty"` // nil keeps the default
	Types      *Types            `json:"types,omitempty" yaml:"types,omitempty"`
	ExtraTypes map[string]string `json:"extra_types,omitempty" yaml:"extra_types,omitempty"`
	Jobs       int               `json:"jobs,omitempty" yaml:"jobs,omitempty"`
}

// 🏭 Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default when
// the path was not asked for explicitly.
func LoadOrDefault(ctx context.Context, path string, explicit bool) (*Config, error) {
	cfg, err := Load(ctx, path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return Default(), nil
	}
	return cfg, err
}

// 🔍 Validate fills in defaults and checks the configuration
func (cfg *Config) Validate() error {
	// Set defaults
	if cfg.Suffix == "" {
		cfg.Suffix = DefaultSuffix
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineRules
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = 1
	}

	if strings.ContainsAny(cfg.Suffix, `/\`) {
		return errors.Errorf("suffix %q may not contain path separators", cfg.Suffix)
	}
	switch cfg.Engine {
	case EngineRules, EngineStructured:
	default:
		return errors.Errorf("engine must be %q or %q, got %q", EngineRules, EngineStructured, cfg.Engine)
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must be positive, got %d", cfg.Jobs)
	}

	if err := cfg.TypeMap().Validate(); err != nil {
		return err
	}
	return nil
}

// TypeMap returns the default type map with this configuration's
// overrides applied
func (cfg *Config) TypeMap() rules.TypeMap {
	m := rules.DefaultTypeMap()
	if cfg.Repr != "" {
		m.Repr = cfg.Repr
	}
	if cfg.Derives != nil {
		m.Derives = cfg.Derives
	}
	if t := cfg.Types; t != nil {
		if t.Int != "" {
			m.Int = t.Int
		}
		if t.Short != "" {
			m.Short = t.Short
		}
		if t.Float != "" {
			m.Float = t.Float
		}
		if t.CharPrefix != "" {
			m.CharPrefix = t.CharPrefix
		}
	}
	for c, rs := range cfg.ExtraTypes {
		m.Extra[c] = rs
	}
	return m
}
