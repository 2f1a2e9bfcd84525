// Package sessionlog writes one timestamped log file per CLI run. Lines are
// queued on a buffered channel and drained by a single writer goroutine so
// that recording from worker goroutines never blocks on disk.
package sessionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/prajeetp/blackhole-cli/internal/ports"
)

const (
	logDirMode   = 0o750
	logFileMode  = 0o600
	queueSize    = 256
	fileTimeForm = "2006-01-02_15-04-05"
)

// Logger is a per-run session log backed by a file under the log directory.
type Logger struct {
	Logger *log.Logger

	file  *os.File
	path  string
	queue chan string
	done  chan struct{}
	once  sync.Once
}

var _ ports.Recorder = (*Logger)(nil)

// New creates the log directory if needed and opens a fresh session log named
// after the start time and the portal user.
func New(logDir, user string) (*Logger, error) {
	if logDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		logDir = filepath.Join(homeDir, ".blackhole", "logs")
	}
	if err := os.MkdirAll(logDir, logDirMode); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	fileName := fmt.Sprintf("SESSION_%s_%s.log", time.Now().Format(fileTimeForm), sanitizeUser(user))
	filePath := filepath.Join(logDir, fileName)
	// #nosec G304 -- filePath is constructed from trusted local paths.
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}

	logger := log.NewWithOptions(file, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	sl := &Logger{
		Logger: logger,
		file:   file,
		path:   filePath,
		queue:  make(chan string, queueSize),
		done:   make(chan struct{}),
	}
	logger.Info(fmt.Sprintf("=== Session started by %s ===", sanitizeUser(user)))
	go sl.drain()

	return sl, nil
}

// Record queues one line for the writer goroutine. Lines recorded after Close
// are dropped.
func (l *Logger) Record(line string) {
	if l == nil {
		return
	}
	defer func() {
		// Send on a closed queue means Close raced a late Record; the
		// line is dropped rather than crashing the worker.
		_ = recover()
	}()
	l.queue <- line
}

// Close drains any queued lines and closes the underlying file. Safe to call
// more than once.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	var err error
	l.once.Do(func() {
		close(l.queue)
		<-l.done
		err = l.file.Close()
	})
	return err
}

// Path returns the session log file path.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Logger) drain() {
	defer close(l.done)
	for line := range l.queue {
		l.Logger.Info(line)
	}
}

func sanitizeUser(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		return "anonymous"
	}

	var b strings.Builder
	for _, r := range user {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
