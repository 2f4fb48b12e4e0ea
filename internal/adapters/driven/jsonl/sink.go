package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.TaskSink = (*Sink)(nil)

// Sink writes tasks as JSON lines.
type Sink struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewSink writes to w. Close flushes but does not close w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// NewFileSink creates (or truncates) the file at path.
func NewFileSink(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &Sink{w: bufio.NewWriter(f), closer: f}, nil
}

// Write appends one task line.
func (s *Sink) Write(task domain.Task) error {
	line, err := EncodeTask(task)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Close flushes buffered lines and closes the file, if any.
func (s *Sink) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
