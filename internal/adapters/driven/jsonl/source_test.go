package jsonl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mentions.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestSource_Records(t *testing.T) {
	path := writeFile(t, `{"text":"Paris","spans":[{"start":0,"end":5}]}

not json
{"text":"Rome","spans":[{"start":0,"end":4}]}
`)

	var texts []string
	var skips []*domain.SkipError
	for rec, err := range NewSource(path).Records(context.Background()) {
		if err != nil {
			skip, ok := domain.IsSkip(err)
			require.True(t, ok, "unexpected fatal error: %v", err)
			skips = append(skips, skip)
			continue
		}
		texts = append(texts, rec.Text)
	}

	assert.Equal(t, []string{"Paris", "Rome"}, texts)
	require.Len(t, skips, 1)
	assert.Equal(t, 1, skips[0].Record)
	assert.ErrorIs(t, skips[0], domain.ErrInvalidInput)
}

func TestSource_MissingFile(t *testing.T) {
	var errs []error
	for _, err := range NewSource(filepath.Join(t.TempDir(), "absent.jsonl")).Records(context.Background()) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], os.ErrNotExist))
}

func TestSource_EarlyStop(t *testing.T) {
	src := NewReaderSource("stdin", strings.NewReader(`{"text":"a"}`+"\n"+`{"text":"b"}`+"\n"))

	count := 0
	for range src.Records(context.Background()) {
		count++
		break
	}

	assert.Equal(t, 1, count)
}

func TestSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var errs []error
	for _, err := range NewReaderSource("stdin", strings.NewReader(`{"text":"a"}`)).Records(ctx) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestSource_LongLine(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	src := NewReaderSource("stdin", strings.NewReader(`{"text":"`+long+`"}`))

	for rec, err := range src.Records(context.Background()) {
		require.NoError(t, err)
		assert.Len(t, rec.Text, len(long))
	}
}

func TestReadTasks(t *testing.T) {
	tasks, err := ReadTasks(strings.NewReader(`{"text":"Paris","options":[{"id":"Q90"}],"answer":"accept","accept":["Q90"]}
{"text":"Rome","options":[{"id":"Q220"}],"answer":"reject"}
`))

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Rome", tasks[1].Text)

	_, err = ReadTasks(strings.NewReader("{\"text\":\"ok\"}\n{broken\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorContains(t, err, "task 2")
}
