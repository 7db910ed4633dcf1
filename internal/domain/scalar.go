package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Scalar holds a JSON value that callers may send as a string, a number, or
// a boolean. Alert fields such as rule levels arrive as numbers from the
// index but as strings from some producers; both forms normalize to the
// same canonical text.
type Scalar string

// UnmarshalJSON accepts strings, numbers, booleans, and null. Arrays and
// objects are rejected.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty scalar value")
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	case 'n':
		if string(data) == "null" {
			*s = ""
			return nil
		}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = Scalar(strconv.FormatBool(b))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scalar must be a string, number, or boolean: %w", err)
	}
	*s = Scalar(n.String())
	return nil
}

// MarshalJSON re-emits integer-valued scalars as numbers so documents
// round-trip the way the index produced them. Empty scalars become null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if i, err := strconv.ParseInt(string(s), 10, 64); err == nil && strconv.FormatInt(i, 10) == string(s) {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

// String returns the canonical text form.
func (s Scalar) String() string {
	return string(s)
}

// Int parses the scalar as an integer.
func (s Scalar) Int() (int, error) {
	return strconv.Atoi(string(s))
}
