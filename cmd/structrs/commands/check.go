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
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/structrs/cmd/structrs/opts"
	"github.com/walteh/structrs/pkg/convert"
	"github.com/walteh/structrs/pkg/cstruct"
	"github.com/walteh/structrs/pkg/log"
	"github.com/walteh/structrs/pkg/source"
)

// ErrUnrecognized is returned by check when any line could not be converted
var ErrUnrecognized = errors.Base("unrecognized lines")

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "check <header>...",
		Short: "Report which lines convert cleanly",
		Long: `Check parses each input with the structured engine and lists every
line that needs review or could not be converted. Nothing is written.
It exits non-zero when any line is unrecognized.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			inputs, err := source.Expand(args, o.Config.Suffix)
			if err != nil {
				return errors.Errorf("expanding inputs: %w", err)
			}

			rw := convert.New(convert.Options{
				Engine: convert.NewStructuredEngine(o.Config.TypeMap()),
				Source: o.Source,
			})

			data := pterm.TableData{{"File", "Line", "Status", "Reason", "Text"}}
			var total cstruct.Summary
			for _, input := range inputs {
				result, err := rw.Transform(ctx, input)
				if err != nil {
					return err
				}

				s := result.Summary()
				total.Converted += s.Converted
				total.NeedsReview += s.NeedsReview
				total.Unrecognized += s.Unrecognized

				data = append(data, checkRows(input, result.Lines, all)...)
			}

			if len(data) > 1 {
				table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
				if err != nil {
					return errors.Errorf("rendering report: %w", err)
				}
				fmt.Fprintln(o.Stdout, table)
			}

			fmt.Fprintf(o.Stdout, "%d converted, %d needs review, %d unrecognized\n",
				total.Converted, total.NeedsReview, total.Unrecognized)

			logger := log.FromContext(ctx)
			if total.Unrecognized > 0 {
				logger.Warningf("%d lines could not be converted", total.Unrecognized)
				return errors.Errorf("%w: %d", ErrUnrecognized, total.Unrecognized)
			}
			logger.Success(fmt.Sprintf("%d inputs convert cleanly", len(inputs)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list converted lines too")

	return cmd
}

func checkRows(input string, lines []cstruct.LineReport, all bool) pterm.TableData {
	var rows pterm.TableData
	for _, l := range lines {
		if l.Status == cstruct.StatusConverted && !all {
			continue
		}
		rows = append(rows, []string{input, strconv.Itoa(l.Line), l.Status.String(), l.Reason, l.Text})
	}
	return rows
}
