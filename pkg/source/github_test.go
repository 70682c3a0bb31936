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
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubRef(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		want        gitHubRef
		errContains string
	}{
		{
			name: "path_only",
			ref:  "github.com/walteh/structrs/testdata/sample.h",
			want: gitHubRef{Owner: "walteh", Repo: "structrs", Path: "testdata/sample.h"},
		},
		{
			name: "with_ref",
			ref:  "https://github.com/walteh/structrs/include/a.h@v1.2.0",
			want: gitHubRef{Owner: "walteh", Repo: "structrs", Path: "include/a.h", Ref: "v1.2.0"},
		},
		{
			name:        "missing_path",
			ref:         "github.com/walteh/structrs",
			errContains: "invalid GitHub reference",
		},
		{
			name:        "empty_ref",
			ref:         "github.com/walteh/structrs/a.h@",
			errContains: "empty ref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGitHubRef(tt.ref)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestGitHub(t *testing.T, handler http.Handler) *GitHub {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return NewGitHubWithClient(client)
}

func TestGitHub_Open(t *testing.T) {
	const body = "struct Remote {\n    uint8_t b;\n};\n"

	var gotRef string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/walteh/structrs/contents/include/remote.h", func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"remote.h","path":"include/remote.h","content":%q}`,
			base64.StdEncoding.EncodeToString([]byte(body)))
	})

	g := newTestGitHub(t, mux)

	doc, err := g.Open(context.Background(), "github.com/walteh/structrs/include/remote.h@main")
	require.NoError(t, err)
	assert.Equal(t, "main", gotRef)
	assert.Equal(t, "remote.h", doc.Path)
	assert.Equal(t, "github.com/walteh/structrs/include/remote.h@main", doc.Ref)
	assert.Equal(t, body, string(doc.Content))
}

func TestGitHub_Open_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	g := newTestGitHub(t, mux)

	_, err := g.Open(context.Background(), "github.com/walteh/structrs/missing.h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getting file content")
}

func TestGitHub_Open_Directory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/walteh/structrs/contents/include", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"type":"file","name":"a.h","path":"include/a.h"}]`)
	})

	g := newTestGitHub(t, mux)

	_, err := g.Open(context.Background(), "github.com/walteh/structrs/include")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
