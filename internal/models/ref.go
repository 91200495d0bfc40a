package models

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// Ref identifies a record owned by the backend (library asset, device, plant).
// The backend uses integer primary keys while drop payloads built by the
// editor may carry string identifiers, so both JSON forms are accepted.
type Ref string

// String returns the identifier as text.
func (r Ref) String() string { return string(r) }

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool { return r == "" }

// Ptr returns a pointer to a copy of r.
func (r Ref) Ptr() *Ref { return &r }

func (r *Ref) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "invalid reference")
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Errorf("invalid reference %s", data)
	}
	*r = Ref(n.String())
	return nil
}

// MarshalJSON writes canonical integers as JSON numbers and everything else
// as strings.
func (r Ref) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(r), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(r) {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}

// RefPtrEqual compares two optional references.
func RefPtrEqual(a, b *Ref) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneRef(r *Ref) *Ref {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
