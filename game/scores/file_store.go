package scores

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/wricardo/robots-game/logger"
)

// FileStore implements Store on a newline-separated score file
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store. The parent directory is created
// if needed; the file itself is created on the first recorded score.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("score file path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create scores directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

// Path returns the score file location
func (fs *FileStore) Path() string {
	return fs.path
}

// Scores reads every well-formed score. A missing or unreadable file reads as
// an empty list.
func (fs *FileStore) Scores(ctx context.Context) ([]int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.read(), nil
}

// Highest returns the best stored score
func (fs *FileStore) Highest(ctx context.Context) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return maxScore(fs.read()), nil
}

// Record appends score on its own line when it beats the stored maximum
func (fs *FileStore) Record(ctx context.Context, score int) (bool, error) {
	if score < 0 {
		return false, ErrNegativeScore
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if score <= maxScore(fs.read()) {
		return false, nil
	}

	line := fmt.Sprintf("%d\n", score)
	if fs.missingFinalNewline() {
		line = "\n" + line
	}

	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("failed to open score file: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return false, fmt.Errorf("failed to write score file: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to write score file: %w", err)
	}

	return true, nil
}

func (fs *FileStore) Close() error { return nil }

// missingFinalNewline reports whether the file is non-empty and its last byte
// is not a newline, so an append would join the previous line
func (fs *FileStore) missingFinalNewline() bool {
	f, err := os.Open(fs.path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.Size() == 0 {
		return false
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false
	}
	return last[0] != '\n'
}

func (fs *FileStore) read() []int {
	f, err := os.Open(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.WithError(err).WithField("path", fs.path).Warn("Score file unreadable, treating as empty")
		}
		return nil
	}
	defer f.Close()

	var scores []int
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 {
			logger.Log.WithField("path", fs.path).Warnf("Skipping malformed score on line %d: %q", line, text)
			continue
		}
		scores = append(scores, n)
	}
	if err := scanner.Err(); err != nil {
		logger.Log.WithError(err).WithField("path", fs.path).Warn("Score file read interrupted")
	}
	return scores
}
