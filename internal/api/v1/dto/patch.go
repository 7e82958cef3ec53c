package dto

import "encoding/json"

// explicitNulls reports which of keys appear in the JSON object with a
// literal null value.
func explicitNulls(data []byte, keys ...string) (map[string]bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	nulls := make(map[string]bool, len(keys))
	for _, k := range keys {
		if v, ok := raw[k]; ok && string(v) == "null" {
			nulls[k] = true
		}
	}
	return nulls, nil
}
