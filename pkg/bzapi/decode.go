package bzapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is how the API renders times, always in UTC.
const TimestampLayout = "2006-01-02T15:04:05Z"

// fields is a decoded JSON object whose members are converted one by one.
type fields map[string]json.RawMessage

func parseFields(raw json.RawMessage) (fields, error) {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("expected an object, got %s", raw)
	}
	return f, nil
}

// has reports whether name is present and not null.
func (f fields) has(name string) bool {
	v, ok := f[name]
	return ok && string(v) != "null"
}

func (f fields) get(name string) (json.RawMessage, error) {
	if !f.has(name) {
		return nil, fmt.Errorf("missing field %q", name)
	}
	return f[name], nil
}

func (f fields) str(name string) (string, error) {
	raw, err := f.get(name)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return s, nil
}

// optionalStr returns nil when the field is absent or null.
func (f fields) optionalStr(name string) (*string, error) {
	if !f.has(name) {
		return nil, nil
	}
	s, err := f.str(name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (f fields) integer(name string) (int, error) {
	raw, err := f.get(name)
	if err != nil {
		return 0, err
	}
	n, err := decodeInt(raw)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	return n, nil
}

func (f fields) boolean(name string) (bool, error) {
	raw, err := f.get(name)
	if err != nil {
		return false, err
	}
	b, err := decodeBool(raw)
	if err != nil {
		return false, fmt.Errorf("field %q: %w", name, err)
	}
	return b, nil
}

func (f fields) timestamp(name string) (time.Time, error) {
	s, err := f.str(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %q: %w", name, err)
	}
	return t, nil
}

// decodeBool accepts only the strings "0" and "1".
func decodeBool(raw json.RawMessage) (bool, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch s {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
	}
	return false, fmt.Errorf("bad boolean value: %s", raw)
}

// decodeInt accepts a JSON number or a string holding one.
func decodeInt(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("bad integer value: %s", raw)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad integer value: %s", raw)
	}
	return n, nil
}

// ParseTimestamp parses e.g. "2010-04-11T19:16:59Z".
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
