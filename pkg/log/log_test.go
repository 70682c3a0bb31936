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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/structrs/pkg/status"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Warning("warning message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"⚠️  warning message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Warningf("warning %d", 2)
			},
			wantLogs: []string{
				"⚠️  warning 2",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("converting 2 headers")
			},
			wantLogs: []string{
				"structrs • converting 2 headers",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestConversionFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   Conversion
		want []string
	}{
		{
			name: "new_rules_output",
			op: Conversion{
				Input:    "sample.h",
				Output:   "sample.h_rust",
				Engine:   "rules",
				Status:   status.StatusNew,
				Rewrites: 9,
			},
			want: []string{"✓", "sample.h_rust", "rules", "NEW", "9", "rewrites"},
		},
		{
			name: "modified_structured_output",
			op: Conversion{
				Output:       "packet.h_rust",
				Engine:       "structured",
				Status:       status.StatusModified,
				NeedsReview:  1,
				Unrecognized: 2,
			},
			want: []string{"⟳", "packet.h_rust", "structured", "MODIFIED", "1", "needs", "review,", "2", "unrecognized"},
		},
		{
			name: "unchanged_output",
			op: Conversion{
				Output: "empty.h_rust",
				Engine: "rules",
				Status: status.StatusUnchanged,
			},
			want: []string{"•", "empty.h_rust", "rules", "UNCHANGED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(io.Discard, zerolog.Nop())
			got := logger.formatConversion(tt.op)
			assert.True(t, strings.HasPrefix(got, "    "), "entry should be indented")
			assert.Equal(t, tt.want, strings.Fields(got), "formatted conversion should match")
		})
	}
}

func TestLogConversion(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	console := &bytes.Buffer{}
	structured := &bytes.Buffer{}
	logger := New(console, zerolog.New(structured))
	ctx := context.Background()

	logger.LogConversion(ctx, Conversion{Input: "a.h", Output: "a.h_rust", Engine: "rules", Status: status.StatusNew, Rewrites: 3})
	logger.LogConversion(ctx, Conversion{Input: "b.h", Output: "b.h_rust", Engine: "rules", Status: status.StatusUnchanged})
	logger.LogConversion(ctx, Conversion{Input: "c.h", Output: "c.h_rust", Engine: "structured", Status: status.StatusModified, Unrecognized: 1})
	logger.LogFailure(ctx, "missing.h", errors.New("no such file"))
	logger.Summary(ctx)

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	require.Len(t, lines, 6, "three conversions, one failure, a blank line and the summary")
	assert.Equal(t, []string{"✗", "missing.h", "no", "such", "file"}, strings.Fields(lines[3]))
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "done: 2 written • 1 unchanged • 1 with unrecognized lines", lines[5])

	assert.Contains(t, structured.String(), `"input":"a.h"`)
	assert.Contains(t, structured.String(), `"rewrites":3`)
	assert.Contains(t, structured.String(), `"message":"conversion failed"`)
	assert.Contains(t, structured.String(), `"flagged":1`)
}
