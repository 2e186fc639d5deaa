package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/eventboard/internal/domain/model"
)

const eventsField = "events"

// decodeDocument parses an import document. The top level must be an object
// whose events field holds an array of records.
func decodeDocument(text string) ([]model.Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: document is null", ErrMalformedDocument)
	}
	raw, ok := fields[eventsField]
	if !ok {
		return nil, ErrMissingEvents
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrEventsNotSequence
	}
	records := []model.Record{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return records, nil
}
