package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// IDField key holding the record id
const IDField = "id"

// Record schemaless JSON object of a collection
type Record map[string]any

// ID record id as a string, empty when absent
func (r Record) ID() string {
	v, ok := r[IDField]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Clone shallow copy
func (r Record) Clone() Record {
	return maps.Clone(r)
}

// Matches every filter field equals the record field, compared as strings
func (r Record) Matches(filter map[string]string) bool {
	for k, want := range filter {
		v, ok := r[k]
		if !ok || Stringify(v) != want {
			return false
		}
	}
	return true
}

// Stringify query-string form of a JSON value
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// change operations
const (
	OpCreate = "create"
	OpPatch  = "patch"
	OpDelete = "delete"
)

// ChangeEvent one write on a collection
type ChangeEvent struct {
	Op         string    `json:"op"`
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	Record     Record    `json:"record,omitempty"`
	At         time.Time `json:"at"`
}
