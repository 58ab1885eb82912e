package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status classifies the outcome of an audited operation.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
	StatusError   Status = "Error"
)

type entry struct {
	Time         string `json:"Time"`
	API          string `json:"API"`
	Status       Status `json:"Status"`
	Input        any    `json:"Input"`
	Output       any    `json:"Output"`
	ErrorMessage string `json:"ErrorMessage"`
}

// Logger appends one JSON line per completed operation to a per-day file
// named API_<operation>_<yyyy-mm-dd>.log. Recording is fire-and-forget:
// a write failure is logged and swallowed, never failing the operation.
type Logger struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewLogger(dir string, logger *zap.Logger) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	return &Logger{dir: dir, logger: logger, now: time.Now}, nil
}

func (l *Logger) Record(operation string, input, output any, status Status, errMsg string) {
	ts := l.now()
	e := entry{
		Time:         ts.Format("2006-01-02 15:04:05.000"),
		API:          operation,
		Status:       status,
		Input:        input,
		Output:       output,
		ErrorMessage: errMsg,
	}

	line, err := json.Marshal(e)
	if err != nil {
		l.logger.Error("audit: marshal entry", zap.Error(err))
		return
	}

	name := fmt.Sprintf("API_%s_%s.log", operation, ts.Format("2006-01-02"))
	path := filepath.Join(l.dir, name)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Error("audit: open log file", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		l.logger.Error("audit: write log file", zap.String("path", path), zap.Error(err))
	}
}
