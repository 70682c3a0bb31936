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
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/structrs/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	engineWidth = 12 // Width for engine name
	statusWidth = 11 // Width for status text
)

// 🎯 Conversion describes one finished header conversion
type Conversion struct {
	Input        string            // Source reference as given
	Output       string            // Path the result was written to
	Engine       string            // Engine that produced the result
	Status       status.FileStatus // What the write did
	Rewrites     int               // Rule replacements made
	NeedsReview  int               // Lines converted with a caveat
	Unrecognized int               // Lines passed over
}

// 🎯 Logger mirrors conversion progress to a console and to zerolog
type Logger struct {
	zlog        zerolog.Logger
	console     io.Writer
	mu          sync.Mutex
	conversions []Conversion
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (c Conversion) detail() string {
	var parts []string
	if c.Rewrites > 0 {
		parts = append(parts, fmt.Sprintf("%d rewrites", c.Rewrites))
	}
	if c.NeedsReview > 0 {
		parts = append(parts, fmt.Sprintf("%d needs review", c.NeedsReview))
	}
	if c.Unrecognized > 0 {
		parts = append(parts, fmt.Sprintf("%d unrecognized", c.Unrecognized))
	}
	return strings.Join(parts, ", ")
}

// 📝 formatConversion formats a conversion for display
func (l *Logger) formatConversion(c Conversion) string {
	var symbol rune
	var symbolColor color.Attribute
	switch c.Status {
	case status.StatusNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.StatusModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	detailColor := color.Faint
	if c.Unrecognized > 0 {
		detailColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, c.Output),
		color.New(color.FgMagenta).Sprint(fmt.Sprintf("%-*s", engineWidth, c.Engine)),
		fmt.Sprintf("%-*s", statusWidth, strings.ToUpper(c.Status.String())),
		color.New(detailColor).Sprint(c.detail()))
}

// 📝 LogConversion logs a finished conversion
func (l *Logger) LogConversion(ctx context.Context, c Conversion) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.conversions = append(l.conversions, c)

	fmt.Fprintln(l.console, l.formatConversion(c))

	l.zlog.Info().
		Str("input", c.Input).
		Str("output", c.Output).
		Str("engine", c.Engine).
		Str("status", c.Status.String()).
		Int("rewrites", c.Rewrites).
		Int("needs_review", c.NeedsReview).
		Int("unrecognized", c.Unrecognized).
		Msg("converted header")
}

// 📝 LogFailure logs an input that could not be converted
func (l *Logger) LogFailure(ctx context.Context, input string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%*s%s %s %s\n", fileIndent, "",
		color.New(color.FgRed).Sprint("✗"),
		fmt.Sprintf("%-*s", nameWidth, input),
		color.New(color.FgRed).Sprint(err.Error()))

	l.zlog.Error().Err(err).Str("input", input).Msg("conversion failed")
}

// 📊 Summary logs totals for every conversion seen so far
func (l *Logger) Summary(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var written, unchanged, flagged int
	for _, c := range l.conversions {
		if c.Status == status.StatusUnchanged {
			unchanged++
		} else {
			written++
		}
		if c.Unrecognized > 0 {
			flagged++
		}
	}

	fmt.Fprintf(l.console, "\n%s %d written %s %d unchanged",
		color.New(color.Bold).Sprint("done:"), written,
		color.New(color.Faint).Sprint("•"), unchanged)
	if flagged > 0 {
		fmt.Fprintf(l.console, " %s %s", color.New(color.Faint).Sprint("•"),
			color.New(color.FgYellow).Sprintf("%d with unrecognized lines", flagged))
	}
	fmt.Fprintln(l.console)

	l.zlog.Info().
		Int("written", written).
		Int("unchanged", unchanged).
		Int("flagged", flagged).
		Msg("conversion complete")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("structrs")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
