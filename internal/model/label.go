package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Label is a JSON scalar that may be either a string or a number.
// The original token is kept so values survive an export/import round-trip.
type Label struct {
	text    string
	numeric bool
}

// StringLabel returns a string-valued label.
func StringLabel(s string) Label {
	return Label{text: s}
}

// IntLabel returns a number-valued label.
func IntLabel(n int) Label {
	return Label{text: strconv.Itoa(n), numeric: true}
}

// String returns the label text without JSON quoting.
func (l Label) String() string {
	return l.text
}

// IsZero reports whether the label is unset.
func (l Label) IsZero() bool {
	return l.text == "" && !l.numeric
}

// Numeric reports whether the label was a JSON number.
func (l Label) Numeric() bool {
	return l.numeric
}

// Int interprets the label as an integer. Leading digits of a string label
// are accepted ("12b" is 12), fractional numbers are truncated.
func (l Label) Int() (int, bool) {
	s := strings.TrimSpace(l.text)
	if s == "" {
		return 0, false
	}
	if l.numeric {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int(f), true
	}
	end := 0
	if s[0] == '-' || s[0] == '+' {
		end = 1
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON writes the label back in its original form.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.IsZero() {
		return []byte("null"), nil
	}
	if l.numeric {
		return []byte(l.text), nil
	}
	return json.Marshal(l.text)
}

// UnmarshalJSON accepts a string, a number, or null.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = Label{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label{text: s}
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("label must be a string or number: %w", err)
	}
	*l = Label{text: n.String(), numeric: true}
	return nil
}
