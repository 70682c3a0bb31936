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
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/structrs/cmd/structrs/opts"
	"github.com/walteh/structrs/pkg/rules"
)

// NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the active rule pipeline in order",
		Long: `Rules prints the rewrite rules the default engine applies, in the
order it applies them, with any type overrides from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := rules.Default(o.Config.TypeMap())
			if err != nil {
				return errors.Errorf("building rule pipeline: %w", err)
			}

			table, err := pterm.DefaultTable.
				WithHasHeader().
				WithData(rulesTable(pipeline)).
				Srender()
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}

			_, err = fmt.Fprintln(o.Stdout, table)
			return err
		},
	}

	return cmd
}

func rulesTable(p rules.Pipeline) pterm.TableData {
	data := pterm.TableData{{"#", "Name", "Pattern", "Template"}}
	for i, r := range p {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Name,
			r.Pattern.String(),
			strings.ReplaceAll(r.Template, "\n", `\n`),
		})
	}
	return data
}
