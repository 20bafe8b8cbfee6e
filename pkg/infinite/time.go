package infinite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// TimeLayout is the layout the platform uses for created/modified fields,
// e.g. "Oct 7, 2015 07:38:01 PM".
const TimeLayout = "Jan 2, 2006 03:04:05 PM"

// ParseTime parses a platform timestamp. The platform layout is tried first;
// anything else dateparse understands is accepted. Zone-less values are UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(TimeLayout, s, time.UTC); err == nil {
		return t, nil
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing platform time %q: %w", s, err)
	}
	return t, nil
}

// FormatTime renders t in the platform layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Time is a platform timestamp on a record. It decodes anything ParseTime
// accepts (or epoch milliseconds) and encodes in TimeLayout.
type Time struct {
	time.Time
}

// MarshalJSON implements json.Marshaler. The zero time encodes as null.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(FormatTime(t.Time))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if b[0] != '"' {
		var ms int64
		if err := json.Unmarshal(b, &ms); err != nil {
			return fmt.Errorf("error decoding platform time: %w", err)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
