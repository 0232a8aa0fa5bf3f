package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// FlexTime accepts either a calendar date ("2006-01-02") or an RFC 3339
// timestamp when decoding JSON. Date-only values are midnight UTC.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	// "" decodes to the zero time, which clears optional dates.
	if s == "" {
		return nil
	}
	parsed, err := ParseFlexTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func ParseFlexTime(s string) (time.Time, error) {
	if d, err := time.Parse(DayLayout, s); err == nil {
		return d.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return ts.UTC(), nil
}

// Day formats t as a calendar day in UTC.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
