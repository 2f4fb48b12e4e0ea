// Package descriptions loads entity descriptions from a delimited file.
package descriptions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// Ensure Table implements the interface.
var _ driven.DescriptionLookup = (*Table)(nil)

// Table is an immutable id to description map.
type Table struct {
	entries map[string]string
}

// Load reads the file described by layout.
func Load(layout domain.DescriptionTable) (*Table, error) {
	f, err := os.Open(layout.Path)
	if err != nil {
		return nil, fmt.Errorf("opening descriptions: %w", err)
	}
	defer f.Close()

	t, err := Read(f, layout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", layout.Path, err)
	}
	return t, nil
}

// Read parses descriptions from r. Rows too short to hold both columns are
// skipped; later rows win for repeated ids.
func Read(r io.Reader, layout domain.DescriptionTable) (*Table, error) {
	if layout.IDColumn < 0 || layout.DescriptionColumn < 0 || layout.IDColumn == layout.DescriptionColumn {
		return nil, fmt.Errorf("%w: description columns %d and %d",
			domain.ErrInvalidInput, layout.IDColumn, layout.DescriptionColumn)
	}

	reader := csv.NewReader(r)
	if layout.Delimiter != 0 {
		reader.Comma = layout.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	need := max(layout.IDColumn, layout.DescriptionColumn) + 1
	entries := make(map[string]string)
	first := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading descriptions: %w", domain.ErrInvalidInput, err)
		}
		if first {
			first = false
			if layout.Header {
				continue
			}
		}
		if len(row) < need {
			continue
		}
		id := strings.TrimSpace(row[layout.IDColumn])
		if id == "" {
			continue
		}
		entries[id] = strings.TrimSpace(row[layout.DescriptionColumn])
	}
	return &Table{entries: entries}, nil
}

// Describe returns the description for id.
func (t *Table) Describe(id string) (string, bool) {
	d, ok := t.entries[id]
	return d, ok && d != ""
}

// Len returns the number of described ids.
func (t *Table) Len() int {
	return len(t.entries)
}
