package domain

import (
	"strconv"
	"strings"
)

// FlexInt is an integer that tolerates type drift in JSON: numbers,
// string-shaped numbers ("3"), float-shaped values (3.0) and null all
// decode without error. Anything uncoercible leaves Valid false, which
// downstream scoring treats as never-matching rather than as a failure.
type FlexInt struct {
	Value int
	Valid bool
}

// Int builds a valid FlexInt.
func Int(v int) FlexInt { return FlexInt{Value: v, Valid: true} }

// UnmarshalJSON never returns an error; malformed input yields an invalid
// FlexInt instead of aborting the surrounding decode.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	f.Value, f.Valid = 0, false

	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if n, err := strconv.Atoi(s); err == nil {
		f.Value, f.Valid = n, true
		return nil
	}
	// Documents written by loosely typed clients sometimes hold doubles
	// (answerIndex: 1.0); truncate the way an int() cast would.
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		f.Value, f.Valid = int(fl), true
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}
