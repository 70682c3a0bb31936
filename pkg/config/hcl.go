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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/structrs/pkg/rules"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// evalContext exposes the stock type map as `defaults`, so a file can
// write `int = defaults.short`.
func evalContext() *hcl.EvalContext {
	m := rules.DefaultTypeMap()
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"defaults": cty.ObjectVal(map[string]cty.Value{
				"int":         cty.StringVal(m.Int),
				"short":       cty.StringVal(m.Short),
				"float":       cty.StringVal(m.Float),
				"char_prefix": cty.StringVal(m.CharPrefix),
				"repr":        cty.StringVal(m.Repr),
			}),
		},
	}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "structrs.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		Suffix  string   `hcl:"suffix,optional"`
		Engine  string   `hcl:"engine,optional"`
		Repr    string   `hcl:"repr,optional"`
		Derives []string `hcl:"derives,optional"`
		Types   *struct {
			Int        string `hcl:"int,optional"`
			Short      string `hcl:"short,optional"`
			Float      string `hcl:"float,optional"`
			CharPrefix string `hcl:"char_prefix,optional"`
		} `hcl:"types,block"`
		ExtraTypes map[string]string `hcl:"extra_types,optional"`
		Jobs       int               `hcl:"jobs,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Suffix:     hclCfg.Suffix,
		Engine:     hclCfg.Engine,
		Repr:       hclCfg.Repr,
		Derives:    hclCfg.Derives,
		ExtraTypes: hclCfg.ExtraTypes,
		Jobs:       hclCfg.Jobs,
	}
	if hclCfg.Types != nil {
		cfg.Types = &Types{
			Int:        hclCfg.Types.Int,
			Short:      hclCfg.Types.Short,
			Float:      hclCfg.Types.Float,
			CharPrefix: hclCfg.Types.CharPrefix,
		}
	}

	return cfg, nil
}
