// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package condat

import (
	"fmt"
	"io"
	"os"
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogSummary print the welcome banner and the final summary
	LogSummary LogLevel = 0
	// LogProgress print also one line per reweighting pass
	LogProgress LogLevel = 1
	// LogTrace print also the recorded cost at every evaluation
	LogTrace LogLevel = 2
)

// Logger handles progress reporting for the solver. Reporting is a pure
// side channel: it never affects numerical results, and a nil or LogNoop
// logger produces bit-identical runs with no output.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
}

// Enable reports whether messages at the given level are emitted.
func (l *Logger) Enable(level LogLevel) bool {
	return l != nil && l.Level >= level
}

// Logf writes a formatted message to the configured writer.
func (l *Logger) Logf(format string, a ...any) {
	if l == nil {
		return
	}
	w := l.Msg
	if w == nil {
		w = os.Stdout
	}
	if len(a) > 0 {
		_, _ = fmt.Fprintf(w, format, a...)
	} else {
		_, _ = fmt.Fprint(w, format)
	}
}
