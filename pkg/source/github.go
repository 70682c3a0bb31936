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
	"context"
	"os"
	"path"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎯 GitHub reads single files from GitHub repositories. References look
// like github.com/<owner>/<repo>/<path>[@<ref>].
type GitHub struct {
	client *github.Client
}

// 🏭 NewGitHub creates a GitHub source. GITHUB_TOKEN is taken from the
// environment or a .env file; without one requests are anonymous.
func NewGitHub(ctx context.Context) *GitHub {
	client := github.NewClient(nil)
	if token := lookupToken(); token != "" {
		client = client.WithAuthToken(token)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("no GITHUB_TOKEN, using anonymous GitHub access")
	}
	return &GitHub{client: client}
}

// NewGitHubWithClient creates a GitHub source around an existing client
func NewGitHubWithClient(client *github.Client) *GitHub {
	return &GitHub{client: client}
}

func lookupToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	env, err := godotenv.Read()
	if err != nil {
		return ""
	}
	return env["GITHUB_TOKEN"]
}

type gitHubRef struct {
	Owner string
	Repo  string
	Path  string
	Ref   string // empty means the default branch
}

// 🔍 parseGitHubRef splits a reference into its parts
func parseGitHubRef(ref string) (gitHubRef, error) {
	rest := strings.TrimPrefix(ref, "https://")
	rest = strings.TrimPrefix(rest, "github.com/")

	var r gitHubRef
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		r.Ref = rest[at+1:]
		rest = rest[:at]
		if r.Ref == "" {
			return gitHubRef{}, errors.Errorf("invalid GitHub reference %q: empty ref after @", ref)
		}
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || strings.Trim(parts[2], "/") == "" {
		return gitHubRef{}, errors.Errorf("invalid GitHub reference %q: want github.com/<owner>/<repo>/<path>[@<ref>]", ref)
	}

	r.Owner = parts[0]
	r.Repo = parts[1]
	r.Path = strings.Trim(parts[2], "/")
	return r, nil
}

// Open implements Source
func (g *GitHub) Open(ctx context.Context, ref string) (*Document, error) {
	r, err := parseGitHubRef(ref)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("owner", r.Owner).
		Str("repo", r.Repo).
		Str("path", r.Path).
		Str("ref", r.Ref).
		Msg("fetching file from GitHub")

	var opts *github.RepositoryContentGetOptions
	if r.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: r.Ref}
	}

	file, _, _, err := g.client.Repositories.GetContents(ctx, r.Owner, r.Repo, r.Path, opts)
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if file == nil {
		return nil, errors.Errorf("%s is a directory", ref)
	}

	data, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	return &Document{Ref: ref, Path: path.Base(r.Path), Content: []byte(data)}, nil
}
