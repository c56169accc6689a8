package backend

import (
	"bytes"
	"encoding/json"
)

// List decodes list payloads that arrive either wrapped as {"data": [...]}
// or as a bare array. Anything else decodes to an empty list.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}

	wrappedData := bytes.TrimSpace(wrapped.Data)
	if len(wrappedData) == 0 || wrappedData[0] != '[' {
		*l = List[T]{}
		return nil
	}

	var items []T
	if err := json.Unmarshal(wrappedData, &items); err != nil {
		return err
	}
	*l = items
	return nil
}
