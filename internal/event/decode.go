package event

import "encoding/json"

// DecodePayload returns input as T, falling back to a JSON round-trip
// for payloads that arrived as generic maps.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
