package models

import "encoding/json"

// APIResult is the normalized shape every backend client operation returns.
// Handlers branch on Success/Message only; raw transport errors never leave
// the client layer.
type APIResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the result payload into v
func (r *APIResult) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}
