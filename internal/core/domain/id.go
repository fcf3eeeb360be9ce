package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a backend record. The backend mixes numeric ids with Mongo
// hex ids, so ID decodes from either a JSON string or a JSON number.
type ID string

func (id ID) String() string { return string(id) }

// MarshalJSON writes canonical integer ids back as JSON numbers, the way the
// backend sent them; every other id stays a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts "abc", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}
