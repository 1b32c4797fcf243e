package events

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Year is an event year as found in the data. Only JSON numbers are valid
// years; anything else (strings, null, missing) is kept as-is and never
// drives decade computation.
type Year struct {
	Value int
	Valid bool

	raw json.RawMessage
}

// NewYear returns a valid year.
func NewYear(y int) Year {
	return Year{Value: y, Valid: true}
}

// String returns the year as text. Invalid years render their original
// token, with JSON strings unquoted.
func (y Year) String() string {
	if len(y.raw) > 0 {
		var s string
		if y.raw[0] == '"' && json.Unmarshal(y.raw, &s) == nil {
			return s
		}
		return string(y.raw)
	}
	if y.Valid {
		return strconv.Itoa(y.Value)
	}
	return ""
}

// Decade returns the decade bucket of a valid year, e.g. "1920s".
func (y Year) Decade() (string, bool) {
	if !y.Valid {
		return "", false
	}
	return Decade(y.Value), true
}

// Decade buckets a year as floor(year/10)*10 followed by "s".
func Decade(year int) string {
	d := year / 10
	if year%10 != 0 && year < 0 {
		d--
	}
	return strconv.Itoa(d*10) + "s"
}

// MarshalJSON writes the original token when there was one.
func (y Year) MarshalJSON() ([]byte, error) {
	if len(y.raw) > 0 {
		return y.raw, nil
	}
	if y.Valid {
		return []byte(strconv.Itoa(y.Value)), nil
	}
	return []byte("null"), nil
}

// maxYearMagnitude bounds the numbers accepted as years so that flooring
// them always fits an int.
const maxYearMagnitude = 1 << 53

// UnmarshalJSON never fails; non-numeric or out-of-range input yields an
// invalid year.
func (y *Year) UnmarshalJSON(data []byte) error {
	*y = Year{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if json.Unmarshal(data, &f) == nil && !math.IsNaN(f) && math.Abs(f) <= maxYearMagnitude {
		y.Valid = true
		y.Value = int(math.Floor(f))
		if f == math.Floor(f) && bytes.Equal(data, []byte(strconv.Itoa(y.Value))) {
			return nil
		}
	}
	y.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (y Year) clone() Year {
	if y.raw != nil {
		y.raw = append(json.RawMessage(nil), y.raw...)
	}
	return y
}
