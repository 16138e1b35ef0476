// Package logging configures the process logger: logrus writing to stderr and
// to a size-rotated file in the data directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

// Setup builds the application logger. The returned closer flushes the log file.
func Setup(level, path string) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(ParseLevel(level))

	if path == "" {
		log.SetOutput(os.Stderr)
		return log, io.NopCloser(nil), nil
	}

	file, err := OpenRotating(path, maxSizeBytes, maxArchives)
	if err != nil {
		log.SetOutput(os.Stderr)
		return log, io.NopCloser(nil), err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return log, file, nil
}

// ParseLevel maps a level name to logrus, defaulting to info.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// RotatingFile is an append-only log file that rolls over to .1, .2, ...
// once it would exceed maxSize.
type RotatingFile struct {
	mu       sync.Mutex
	path     string
	maxSize  int64
	archives int
	f        *os.File
	size     int64
}

// OpenRotating opens path for appending, rotating first if it is already full.
func OpenRotating(path string, maxSize int64, archives int) (*RotatingFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	w := &RotatingFile{path: path, maxSize: maxSize, archives: archives}
	if st, err := os.Stat(path); err == nil && st.Size() >= maxSize {
		w.rotate()
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotatingFile) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	w.f = f
	w.size = st.Size()
	return nil
}

// Write appends p, rotating beforehand when p would overflow the file.
func (w *RotatingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return 0, os.ErrClosed
	}
	if w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		_ = w.f.Close()
		w.f = nil
		w.rotate()
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	n, err := w.f.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the underlying file.
func (w *RotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// rotate shifts archives up by one, dropping the oldest.
func (w *RotatingFile) rotate() {
	_ = os.Remove(w.archiveName(w.archives))
	for i := w.archives - 1; i >= 1; i-- {
		_ = os.Rename(w.archiveName(i), w.archiveName(i+1))
	}
	_ = os.Rename(w.path, w.archiveName(1))
}

func (w *RotatingFile) archiveName(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}
