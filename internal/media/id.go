package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a catalog item in locally stored records. Numeric IDs are
// kept in canonical integer form so "7", "007" and 7 compare equal; anything
// else compares in its original form.
type ID string

// ParseID canonicalizes an ID given in string form.
func ParseID(s string) ID {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return ID(strconv.Itoa(n))
	}
	return ID(s)
}

// IntID converts a numeric catalog ID.
func IntID(n int) ID {
	return ID(strconv.Itoa(n))
}

// Int returns the numeric form of the ID.
func (id ID) Int() (int, bool) {
	n, err := strconv.Atoi(string(id))
	return n, err == nil
}

func (id ID) String() string { return string(id) }

// MarshalJSON writes numeric IDs as JSON numbers and the rest as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
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
		*id = ParseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = ParseID(n.String())
	return nil
}
