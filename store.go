package embeditor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrNotFound is returned by Store.Load when the file does not exist.
var ErrNotFound = errors.New("file not found")

// IOError describes a failed load or save. N is the number of bytes that
// were written before a save failed.
type IOError struct {
	Op   string
	Path string
	N    int
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Store loads and saves the lines of a file.
type Store interface {
	Load(path string) ([]string, error)
	Save(path string, lines []string) (int, error)
}

// FileStore is a Store backed by the local file system.
type FileStore struct {
	// Perm is used when a file is created. Zero means 0644.
	Perm fs.FileMode
}

// Load reads path and returns its lines with the line terminators removed.
func (s FileStore) Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var lines []string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &IOError{Op: "read", Path: path, Err: err}
		}
	}
	return lines, nil
}

// Save writes the lines to path back to back, without adding separators,
// and returns the number of bytes written.
func (s FileStore) Save(path string, lines []string) (int, error) {
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, &IOError{Op: "open", Path: path, Err: err}
	}
	w := bufio.NewWriter(f)
	n := 0
	for _, line := range lines {
		m, err := w.WriteString(line)
		n += m
		if err != nil {
			f.Close()
			return n, &IOError{Op: "write", Path: path, N: n, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return n - w.Buffered(), &IOError{Op: "write", Path: path, N: n - w.Buffered(), Err: err}
	}
	if err := f.Close(); err != nil {
		return n, &IOError{Op: "close", Path: path, N: n, Err: err}
	}
	return n, nil
}
