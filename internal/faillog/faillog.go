// Package faillog appends ingestion failures to category-named log files.
package faillog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const separator = "--------------------------------------------------------------------------------"

// Logger writes timestamped diagnostic entries, one file per category.
// Every method is best-effort: a sink that cannot write must not take
// the ingestion run down with it, so errors are swallowed.
type Logger struct {
	dir string

	mu sync.Mutex
}

// New returns a Logger writing under dir. The directory is created
// lazily on first write.
func New(dir string) *Logger {
	return &Logger{dir: dir}
}

// Log appends msg to the log file named after category.
func (l *Logger) Log(category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return
	}

	name := filepath.Join(l.dir, sanitizeCategory(category)+".log")
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	ts := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(f, "%s LOG:  %s\n%s\n", ts, msg, separator)
}

// Logf is Log with fmt.Sprintf formatting.
func (l *Logger) Logf(category, format string, args ...any) {
	l.Log(category, fmt.Sprintf(format, args...))
}

// sanitizeCategory keeps category names safe to use as file names.
func sanitizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "failed"
	}
	var b strings.Builder
	for _, r := range category {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
