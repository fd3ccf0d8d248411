package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeList normalizes the backend's dual-shape collection responses.
//
// The rule, applied nowhere else: a response is either a bare JSON array,
// or an object wrapping the array under the resource's well-known
// collection key ("groups", "auctions", "cards", "orders", "messages").
// Anything else is a malformed response.
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &Error{Kind: KindMalformed, Message: "empty list response"}
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, &Error{Kind: KindMalformed, Message: "decode list: " + err.Error()}
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, &Error{Kind: KindMalformed, Message: "decode list wrapper: " + err.Error()}
	}
	inner, ok := wrapper[key]
	if !ok {
		return nil, &Error{Kind: KindMalformed, Message: fmt.Sprintf("list response missing %q", key)}
	}

	var items []T
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, &Error{Kind: KindMalformed, Message: "decode wrapped list: " + err.Error()}
	}
	return items, nil
}

// decodeWrapped decodes an object that may arrive bare or wrapped under a
// single well-known key ({"user": {...}}, {"auction": {...}}).
func decodeWrapped[T any](raw json.RawMessage, key string) (T, error) {
	var zero T

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return zero, &Error{Kind: KindMalformed, Message: "decode response: " + err.Error()}
	}
	if inner, ok := wrapper[key]; ok {
		if t := bytes.TrimSpace(inner); len(t) > 0 && t[0] == '{' {
			var out T
			if err := json.Unmarshal(t, &out); err != nil {
				return zero, &Error{Kind: KindMalformed, Message: "decode wrapped response: " + err.Error()}
			}
			return out, nil
		}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, &Error{Kind: KindMalformed, Message: "decode response: " + err.Error()}
	}
	return out, nil
}
