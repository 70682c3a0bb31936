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

// Package source opens the documents handed to the converter.
package source

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 Document is one input, fully read
type Document struct {
	// Ref is the reference as the user wrote it
	Ref string

	// Path is the local path the output name derives from
	Path string

	Content []byte
}

// 🔌 Source opens a document by reference
type Source interface {
	Open(ctx context.Context, ref string) (*Document, error)
}

// 📂 Local reads documents from the file system
type Local struct{}

// Open implements Source
func (Local) Open(ctx context.Context, ref string) (*Document, error) {
	zerolog.Ctx(ctx).Debug().Str("path", ref).Msg("reading local file")

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", ref, err)
	}
	return &Document{Ref: ref, Path: ref, Content: data}, nil
}

// 🔀 Mux sends GitHub references to a remote source and everything else
// to the local file system.
type Mux struct {
	Local  Source
	Remote Source // nil disables remote references
}

// NewMux creates a Mux over the local file system and remote
func NewMux(remote Source) *Mux {
	return &Mux{Local: Local{}, Remote: remote}
}

// Open implements Source
func (m *Mux) Open(ctx context.Context, ref string) (*Document, error) {
	if m.Remote != nil && IsGitHubRef(ref) {
		if _, err := os.Stat(ref); err != nil {
			return m.Remote.Open(ctx, ref)
		}
	}
	return m.Local.Open(ctx, ref)
}

// IsGitHubRef reports whether ref names a file on GitHub
func IsGitHubRef(ref string) bool {
	return strings.HasPrefix(ref, "github.com/") || strings.HasPrefix(ref, "https://github.com/")
}
