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

package commands

import (
	"context"
	"fmt"
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/structrs/cmd/structrs/opts"
	"github.com/walteh/structrs/pkg/convert"
	"github.com/walteh/structrs/pkg/log"
	"github.com/walteh/structrs/pkg/source"
	"github.com/walteh/structrs/pkg/status"
)

// newRewriter builds a rewriter from the shared options
func newRewriter(o *opts.RootOpts) (*convert.Rewriter, error) {
	engine, err := convert.NewEngine(o.Config)
	if err != nil {
		return nil, errors.Errorf("creating engine: %w", err)
	}

	var stdout io.Writer
	if !o.Quiet {
		stdout = o.Stdout
	}

	return convert.New(convert.Options{
		Engine: engine,
		Source: o.Source,
		Writer: status.NewWriter(0),
		Suffix: o.Config.Suffix,
		Stdout: stdout,
	}), nil
}

func conversionOf(engine string, r *convert.Result) log.Conversion {
	c := log.Conversion{
		Input:  r.Input,
		Output: r.OutputPath,
		Engine: engine,
		Status: r.Status,
	}
	if r.Rules != nil {
		c.Rewrites = r.Rules.ReplacementCount
	}
	s := r.Summary()
	c.NeedsReview = s.NeedsReview
	c.Unrecognized = s.Unrecognized
	return c
}

// 🎯 RunConvert converts every input named by args
func RunConvert(ctx context.Context, o *opts.RootOpts, args []string) error {
	inputs, err := source.Expand(args, o.Config.Suffix)
	if err != nil {
		return errors.Errorf("expanding inputs: %w", err)
	}

	rw, err := newRewriter(o)
	if err != nil {
		return err
	}
	engine := rw.Engine().Name()
	logger := log.FromContext(ctx)

	if len(inputs) == 1 {
		result, err := rw.Convert(ctx, inputs[0])
		if err != nil {
			logger.LogFailure(ctx, inputs[0], err)
			return err
		}
		logger.LogConversion(ctx, conversionOf(engine, result))
		return nil
	}

	logger.Header(fmt.Sprintf("converting %d headers with %s", len(inputs), engine))

	outcomes, err := rw.ConvertAll(ctx, inputs, o.Config.Jobs)
	for _, oc := range outcomes {
		if oc.Err != nil {
			logger.LogFailure(ctx, oc.Input, oc.Err)
			continue
		}
		logger.LogConversion(ctx, conversionOf(engine, oc.Result))
	}
	logger.Summary(ctx)

	if err != nil {
		return errors.Errorf("converting %d inputs: %w", len(inputs), err)
	}
	return nil
}
