// Package report surfaces submission outcomes: a readable dump of the captured
// values, a structured log entry, or both.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Dump writes the submitted values as indented JSON. Failed submissions are
// written as a single error line.
type Dump struct {
	W io.Writer

	mu sync.Mutex
}

// NewDump returns a Dump writing to w.
func NewDump(w io.Writer) *Dump {
	return &Dump{W: w}
}

// Report implements form.Reporter.
func (d *Dump) Report(_ context.Context, outcome form.Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if outcome.Err != nil {
		fmt.Fprintf(d.W, "submission %s failed: %v\n", outcome.ID, outcome.Err)
		return
	}
	out, err := Format(outcome)
	if err != nil {
		fmt.Fprintf(d.W, "submission %s: %v\n", outcome.ID, err)
		return
	}
	_, _ = d.W.Write(append(out, '\n'))
}

// Format renders the outcome values as JSON indented by two spaces, keeping
// field declaration order.
func Format(outcome form.Outcome) ([]byte, error) {
	names := outcome.Values.Names()
	if len(names) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for idx, name := range names {
		key, err := sonic.ConfigStd.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("report: encode key %q: %w", name, err)
		}
		value, _ := outcome.Values.Get(name)
		encoded, err := sonic.ConfigStd.MarshalIndent(value, "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("report: encode %q: %w", name, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(encoded)
		if idx < len(names)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Log writes one structured entry per outcome.
type Log struct {
	Logger *zap.SugaredLogger
}

// Report implements form.Reporter.
func (l Log) Report(_ context.Context, outcome form.Outcome) {
	logger := l.Logger
	if logger == nil {
		return
	}
	fields := []any{
		"submission", outcome.ID,
		"duration", outcome.Finished.Sub(outcome.Started),
		"values", LoggedValues(outcome),
	}
	if outcome.Err != nil {
		logger.Warnw("form submission failed", append(fields, "error", outcome.Err)...)
		return
	}
	logger.Infow("form submission", fields...)
}

// Redacted replaces secret values in logged output.
const Redacted = "[redacted]"

// LoggedValues returns the outcome values safe for a log sink. Fields listed
// in outcome.Secrets, and any field whose name mentions a password, are
// replaced with Redacted. Empty secrets stay empty.
func LoggedValues(outcome form.Outcome) map[string]any {
	secret := make(map[string]bool, len(outcome.Secrets))
	for _, name := range outcome.Secrets {
		secret[name] = true
	}

	values := outcome.Values.Map()
	for _, name := range outcome.Values.Names() {
		if !secret[name] && !strings.Contains(strings.ToLower(name), "password") {
			continue
		}
		if outcome.Values.String(name) != "" {
			values[name] = Redacted
		}
	}
	return values
}

// Multi fans an outcome out to several reporters in order.
type Multi []form.Reporter

// Report implements form.Reporter.
func (m Multi) Report(ctx context.Context, outcome form.Outcome) {
	for _, reporter := range m {
		if reporter != nil {
			reporter.Report(ctx, outcome)
		}
	}
}
