package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedResponse = errors.New("malformed catalog response")

// envelopeKeys are tried in order after the resource's own key.
var envelopeKeys = []string{"data", "items", "results"}

// decodeList extracts the list elements of a catalog response. The body may
// be a bare JSON array or an object wrapping the array under primaryKey or
// one of envelopeKeys. An object with none of those keys is an empty list.
func decodeList(body []byte, primaryKey string) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	switch body[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return list, nil

	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		for _, key := range append([]string{primaryKey}, envelopeKeys...) {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			raw = bytes.TrimSpace(raw)
			if len(raw) == 0 || raw[0] != '[' {
				continue
			}
			var list []json.RawMessage
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, key, err)
			}
			return list, nil
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unexpected body", ErrMalformedResponse)
	}
}
