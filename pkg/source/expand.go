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

package source

import (
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// Expand replaces every glob pattern in refs with the regular files it
// matches, keeping the order of refs and dropping duplicates. Matches
// ending in skipSuffix are left out so earlier outputs are not converted
// again. Plain paths, existing paths that look like globs and GitHub
// references pass through untouched.
func Expand(refs []string, skipSuffix string) ([]string, error) {
	var out []string
	seen := make(map[string]bool, len(refs))
	add := func(ref string) {
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}

	for _, ref := range refs {
		if IsGitHubRef(ref) || !hasMeta(ref) {
			add(ref)
			continue
		}
		if _, err := os.Stat(ref); err == nil {
			// an existing file whose name happens to contain glob syntax
			add(ref)
			continue
		}

		matches, err := doublestar.FilepathGlob(ref)
		if err != nil {
			return nil, errors.Errorf("expanding %s: %w", ref, err)
		}
		sort.Strings(matches)

		n := 0
		for _, m := range matches {
			if skipSuffix != "" && strings.HasSuffix(m, skipSuffix) {
				continue
			}
			if info, err := os.Stat(m); err != nil || !info.Mode().IsRegular() {
				continue
			}
			add(m)
			n++
		}
		if n == 0 {
			return nil, errors.Errorf("pattern %s matched no files", ref)
		}
	}

	return out, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
