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

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus describes what a write did to its destination
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File didn't exist
	StatusModified             // File existed with different content
	StatusUnchanged            // File existed with identical content
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// 💾 Writer persists converted output
type Writer struct {
	perm os.FileMode
}

// 🏭 NewWriter creates a writer that creates files with perm
func NewWriter(perm os.FileMode) *Writer {
	if perm == 0 {
		perm = 0o644
	}
	return &Writer{perm: perm}
}

// Checksum returns the hex sha256 of content
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Write stores content at path through a temporary file and a rename.
// An existing file whose sha256 matches content is left untouched.
func (w *Writer) Write(ctx context.Context, path string, content []byte) (FileStatus, error) {
	logger := zerolog.Ctx(ctx)

	if err := ctx.Err(); err != nil {
		return StatusUnknown, errors.Errorf("writing %s: %w", path, err)
	}

	sum := Checksum(content)

	st := StatusNew
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if Checksum(existing) == sum {
			logger.Debug().Str("path", path).Str("checksum", sum).Msg("output unchanged")
			return StatusUnchanged, nil
		}
		st = StatusModified
	case !errors.Is(err, os.ErrNotExist):
		return StatusUnknown, errors.Errorf("reading existing %s: %w", path, err)
	}

	if err := writeAtomic(path, content, w.perm); err != nil {
		return StatusUnknown, err
	}

	logger.Debug().
		Str("path", path).
		Str("status", st.String()).
		Str("checksum", sum).
		Msg("wrote output")

	return st, nil
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
