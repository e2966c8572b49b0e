package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID opaque backend identifier.
// The backend may emit it as a JSON number or string; it is always written back as a string.
type ID string

// String implements fmt.Stringer
func (id ID) String() string { return string(id) }

// UnmarshalJSON accept "abc", 12 and null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}
