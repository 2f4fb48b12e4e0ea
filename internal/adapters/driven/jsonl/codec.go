package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/linktask/internal/core/domain"
)

// Reserved top-level keys. Anything else is metadata.
const (
	keyInputHash = "_input_hash"
	keyTaskHash  = "_task_hash"
	keyText      = "text"
	keySpans     = "spans"
	keyOptions   = "options"
	keyAnswer    = "answer"
	keyAccept    = "accept"
)

var reserved = map[string]bool{
	keyInputHash: true,
	keyTaskHash:  true,
	keyText:      true,
	keySpans:     true,
	keyOptions:   true,
	keyAnswer:    true,
	keyAccept:    true,
}

type spanJSON struct {
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Label    string `json:"label,omitempty"`
	Text     string `json:"text,omitempty"`
	ParsedID string `json:"parsed_id,omitempty"`

	// LegacyParsedID is the field name used by older evaluation exports.
	LegacyParsedID string `json:"parsed_WP_ID,omitempty"`
}

func (s spanJSON) toDomain() domain.MentionSpan {
	parsed := s.ParsedID
	if parsed == "" {
		parsed = s.LegacyParsedID
	}
	return domain.MentionSpan{
		Start:    s.Start,
		End:      s.End,
		ParsedID: parsed,
		Label:    s.Label,
		Text:     s.Text,
	}
}

func spanFromDomain(s domain.MentionSpan) spanJSON {
	return spanJSON{
		Start:    s.Start,
		End:      s.End,
		Label:    s.Label,
		Text:     s.Text,
		ParsedID: s.ParsedID,
	}
}

type optionJSON struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`
}

// DecodeRecord parses one mention record line.
func DecodeRecord(line []byte) (domain.MentionRecord, error) {
	fields, err := decodeObject(line)
	if err != nil {
		return domain.MentionRecord{}, err
	}

	var rec domain.MentionRecord
	if err := decodeField(fields, keyText, &rec.Text); err != nil {
		return domain.MentionRecord{}, err
	}
	if rec.Text == "" {
		return domain.MentionRecord{}, fmt.Errorf("%w: record has no text", domain.ErrInvalidInput)
	}
	rec.Spans, err = decodeSpans(fields)
	if err != nil {
		return domain.MentionRecord{}, err
	}
	rec.Meta, err = decodeMeta(fields)
	if err != nil {
		return domain.MentionRecord{}, err
	}
	return rec, nil
}

// DecodeTask parses one task line, including annotated exports.
func DecodeTask(line []byte) (domain.Task, error) {
	fields, err := decodeObject(line)
	if err != nil {
		return domain.Task{}, err
	}

	var task domain.Task
	if task.InputHash, err = decodeHash(fields, keyInputHash); err != nil {
		return domain.Task{}, err
	}
	if task.TaskHash, err = decodeHash(fields, keyTaskHash); err != nil {
		return domain.Task{}, err
	}
	for key, dst := range map[string]any{
		keyText:   &task.Text,
		keyAnswer: &task.Answer,
		keyAccept: &task.Accept,
	} {
		if err := decodeField(fields, key, dst); err != nil {
			return domain.Task{}, err
		}
	}

	task.Spans, err = decodeSpans(fields)
	if err != nil {
		return domain.Task{}, err
	}

	var options []optionJSON
	if err := decodeField(fields, keyOptions, &options); err != nil {
		return domain.Task{}, err
	}
	for _, o := range options {
		task.Options = append(task.Options, domain.Option{ID: o.ID, Text: o.Text, HTML: o.HTML})
	}

	task.Meta, err = decodeMeta(fields)
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// EncodeTask renders a task as one JSON line without the trailing newline.
// Metadata keys that collide with reserved keys are dropped.
func EncodeTask(task domain.Task) ([]byte, error) {
	out := make(map[string]any, len(task.Meta)+len(reserved))
	for k, v := range task.Meta {
		if !reserved[k] {
			out[k] = v
		}
	}

	spans := make([]spanJSON, len(task.Spans))
	for i, s := range task.Spans {
		spans[i] = spanFromDomain(s)
	}
	options := make([]optionJSON, len(task.Options))
	for i, o := range task.Options {
		options[i] = optionJSON{ID: o.ID, Text: o.Text, HTML: o.HTML}
	}

	out[keyInputHash] = task.InputHash
	out[keyTaskHash] = task.TaskHash
	out[keyText] = task.Text
	out[keySpans] = spans
	out[keyOptions] = options
	if task.Answer != "" {
		out[keyAnswer] = task.Answer
	}
	if task.Accept != nil {
		out[keyAccept] = task.Accept
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding task: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func decodeObject(line []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", domain.ErrInvalidInput)
	}
	return fields, nil
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: field %s: %w", domain.ErrInvalidInput, key, err)
	}
	return nil
}

// decodeHash reads a hex hash. Numeric hashes from other tools are ignored
// and left for the fingerprinter to recompute.
func decodeHash(fields map[string]json.RawMessage, key string) (domain.Hash, error) {
	raw, ok := fields[key]
	if !ok || len(raw) == 0 || raw[0] != '"' {
		return 0, nil
	}
	var h domain.Hash
	if err := json.Unmarshal(raw, &h); err != nil {
		return 0, fmt.Errorf("field %s: %w", key, err)
	}
	return h, nil
}

func decodeSpans(fields map[string]json.RawMessage) ([]domain.MentionSpan, error) {
	var spans []spanJSON
	if err := decodeField(fields, keySpans, &spans); err != nil {
		return nil, err
	}
	result := make([]domain.MentionSpan, len(spans))
	for i, s := range spans {
		result[i] = s.toDomain()
	}
	return result, nil
}

func decodeMeta(fields map[string]json.RawMessage) (map[string]any, error) {
	var meta map[string]any
	for key, raw := range fields {
		if reserved[key] {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: field %s: %w", domain.ErrInvalidInput, key, err)
		}
		if meta == nil {
			meta = make(map[string]any)
		}
		meta[key] = v
	}
	return meta, nil
}
