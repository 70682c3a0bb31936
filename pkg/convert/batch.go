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
	"golang.org/x/sync/errgroup"
)

// 📋 Outcome is the result of one input in a batch. Exactly one of
// Result and Err is set.
type Outcome struct {
	Input  string
	Result *Result
	Err    error
}

// ⚡ ConvertAll converts inputs with at most jobs running at once, then
// prints every successful result in input order. A failed input does not
// stop the others; the returned error joins every failure.
func (r *Rewriter) ConvertAll(ctx context.Context, inputs []string, jobs int) ([]Outcome, error) {
	if jobs < 1 {
		jobs = 1
	}

	zerolog.Ctx(ctx).Debug().Int("inputs", len(inputs)).Int("jobs", jobs).Msg("converting batch")

	outcomes := make([]Outcome, len(inputs))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, input := range inputs {
		outcomes[i].Input = input
		g.Go(func() error {
			outcomes[i].Result, outcomes[i].Err = r.process(ctx, input)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
			continue
		}
		if err := r.print(o.Result); err != nil {
			return outcomes, err
		}
	}

	if len(errs) > 0 {
		return outcomes, errors.Join(errs...)
	}
	return outcomes, nil
}
