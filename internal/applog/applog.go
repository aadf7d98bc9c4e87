package applog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	fileName    = "salonreviews.log"
	maxFileSize = 5 << 20 // 5 MB
	maxValueLen = 200
	truncSuffix = "…"
)

var (
	mu   sync.Mutex
	file *os.File
	path string
)

// Init opens <dir>/salonreviews.log for appending, rotating it to .log.1
// first when it has grown past 5 MB. Until Init succeeds every log call is
// a no-op, which is what tests rely on.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	p := filepath.Join(dir, fileName)

	if info, err := os.Stat(p); err == nil && info.Size() > maxFileSize {
		os.Rename(p, p+".1")
	}

	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	if file != nil {
		file.Close()
	}
	file = f
	path = p
	mu.Unlock()
	return nil
}

// Path returns the active log file, or "" before Init.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return path
}

// Close closes the log file. Later calls are no-ops until the next Init.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
}

// Info logs an event with key/value pairs.
//
//	applog.Info("tabbar.select", "from", "_all", "to", "mia")
func Info(event string, kv ...any) {
	write("INFO", event, nil, kv)
}

// Warn logs a recoverable anomaly.
func Warn(event string, kv ...any) {
	write("WARN", event, nil, kv)
}

// Error logs an event with an error.
//
//	applog.Error("store.insert_review", err, "id", r.ID)
func Error(event string, err error, kv ...any) {
	write("ERROR", event, err, kv)
}

func write(level, event string, err error, kv []any) {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return
	}
	file.WriteString(format(time.Now(), level, event, err, kv))
}

func format(ts time.Time, level, event string, err error, kv []any) string {
	var b strings.Builder
	b.WriteString(ts.UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteByte(' ')
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(event)

	if err != nil {
		b.WriteString(" err=")
		b.WriteString(quote(err.Error()))
	}
	for i := 0; i+1 < len(kv); i += 2 {
		b.WriteByte(' ')
		b.WriteString(fmt.Sprint(kv[i]))
		b.WriteByte('=')
		b.WriteString(quote(fmt.Sprint(kv[i+1])))
	}
	if len(kv)%2 == 1 {
		b.WriteString(" !extra=")
		b.WriteString(quote(fmt.Sprint(kv[len(kv)-1])))
	}
	b.WriteByte('\n')
	return b.String()
}

func quote(s string) string {
	if len(s) > maxValueLen {
		s = s[:maxValueLen] + truncSuffix
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
	}
	return s
}
