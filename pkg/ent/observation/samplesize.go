package observation

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// rangeRx matches "low-high" sample sizes, like "4-47" or "10 – 20".
var rangeRx = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*[-–]\s*(\d+(?:\.\d+)?)$`)

// SampleSize is the number of specimens in a sample. The source gives
// either a number or a "low-high" range, only the upper bound is kept.
type SampleSize struct {
	// Raw is the value as it was given in the document.
	Raw   string
	Max   int
	Valid bool
}

// ParseSampleSize extracts a sample size from a number or a string.
// Ranges resolve to their upper bound. Anything that does not look like
// a non-negative number or range yields ok == false.
func ParseSampleSize(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return fromFloat(float64(n))
	case int64:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return fromFloat(f)
	case string:
		return parseSampleString(n)
	default:
		return 0, false
	}
}

func parseSampleString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromFloat(f)
	}

	m := rangeRx.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	low, err1 := strconv.ParseFloat(m[1], 64)
	high, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return fromFloat(math.Max(low, high))
}

func fromFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return int(f), true
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable values are not
// an error, they produce an absent sample size.
func (s *SampleSize) UnmarshalJSON(b []byte) error {
	*s = SampleSize{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var v any
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s.Raw = str
		v = str
	} else {
		s.Raw = string(b)
		v = json.Number(s.Raw)
	}
	s.Max, s.Valid = ParseSampleSize(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s SampleSize) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.Max)), nil
}
