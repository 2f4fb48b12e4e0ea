package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.MentionSource = (*Source)(nil)

const (
	initialLineBuffer = 64 * 1024
	maxLineSize       = 64 * 1024 * 1024
)

// Source streams mention records from a JSONL file.
// The file is opened when iteration starts and closed when it stops.
type Source struct {
	name string
	open func() (io.ReadCloser, error)
}

// NewSource creates a source over the file at path.
func NewSource(path string) *Source {
	return &Source{
		name: path,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// NewReaderSource creates a source over r. r is read once and never closed.
func NewReaderSource(name string, r io.Reader) *Source {
	return &Source{
		name: name,
		open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil },
	}
}

// Records yields one record per non-blank line. Lines that fail to decode
// are yielded as *domain.SkipError; read failures end the stream.
func (s *Source) Records(ctx context.Context) iter.Seq2[domain.MentionRecord, error] {
	return func(yield func(domain.MentionRecord, error) bool) {
		f, err := s.open()
		if err != nil {
			yield(domain.MentionRecord{}, fmt.Errorf("opening %s: %w", s.name, err))
			return
		}
		defer f.Close()

		index := 0
		stopped := false
		err = scanLines(f, func(line []byte) bool {
			if ctx.Err() != nil {
				return false
			}
			rec, err := DecodeRecord(line)
			if err != nil {
				err = &domain.SkipError{Record: index, Err: err}
			}
			index++
			if !yield(rec, err) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			yield(domain.MentionRecord{}, err)
		}
	}
}

// ReadTasks decodes every task in r. The first undecodable line fails the
// whole read with its line number.
func ReadTasks(r io.Reader) ([]domain.Task, error) {
	var tasks []domain.Task
	var decodeErr error
	err := scanLines(r, func(line []byte) bool {
		task, err := DecodeTask(line)
		if err != nil {
			decodeErr = fmt.Errorf("task %d: %w", len(tasks)+1, err)
			return false
		}
		tasks = append(tasks, task)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// scanLines calls fn for each non-blank line until fn returns false.
func scanLines(r io.Reader, fn func(line []byte) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !fn(line) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading lines: %w", err)
	}
	return nil
}
