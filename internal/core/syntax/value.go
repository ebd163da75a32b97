package syntax

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Codec converts between raw text and typed values, and between documents
// and item forests. Dates are resolved in the codec's location and bare
// times of day are resolved against its clock.
type Codec struct {
	now func() time.Time
	loc *time.Location
}

// NewCodec creates a codec. A nil now defaults to time.Now and a nil loc to
// time.Local.
func NewCodec(now func() time.Time, loc *time.Location) *Codec {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Codec{now: now, loc: loc}
}

var (
	hoursPattern        = regexp.MustCompile(`^(\d+)h$`)
	minutesPattern      = regexp.MustCompile(`^(\d+)m$`)
	hoursMinutesPattern = regexp.MustCompile(`^(\d+)h(\d+)m$`)
	datePattern         = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})(?:_(\d{2})h(\d{2}))?$`)
	timePattern         = regexp.MustCompile(`^(\d{2})h(\d{2})$`)
)

// ParseValue interprets text as the first matching of: boolean, number,
// duration, date, list, interval. Anything else is text.
//
// A numeral equal to zero is not a number and parses as text.
func (c *Codec) ParseValue(text string) TagData {
	if b, ok := parseBoolean(text); ok {
		return Bool(b)
	}
	if n, ok := parseNumber(text); ok {
		return Number(n)
	}
	if d, ok := parseDuration(text); ok {
		return Duration(d)
	}
	if d, ok := c.parseDate(text); ok {
		return Date(d)
	}
	if strings.Contains(text, ListSeparator) {
		parts := strings.Split(text, ListSeparator)
		values := make([]TagData, len(parts))
		for i, p := range parts {
			values[i] = c.ParseValue(p)
		}
		return List(values...)
	}
	if parts := strings.Split(text, IntervalSeparator); len(parts) == 2 {
		return Interval(c.ParseValue(parts[0]), c.ParseValue(parts[1]))
	}
	return Text(text)
}

// StringifyValue is the inverse of ParseValue. A true boolean renders as the
// empty string.
func (c *Codec) StringifyValue(d TagData) string {
	switch d.Kind {
	case KindBoolean:
		if d.Bool {
			return ""
		}
		return "false"
	case KindNumber:
		return formatNumber(d.Number)
	case KindDuration:
		return formatDuration(d.Int)
	case KindDate:
		return c.formatDate(d.Int)
	case KindList:
		return c.join(d.List, ListSeparator)
	case KindInterval:
		return c.join(d.List, IntervalSeparator)
	default:
		return d.Text
	}
}

func (c *Codec) join(values []TagData, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = c.StringifyValue(v)
	}
	return strings.Join(parts, sep)
}

func parseBoolean(text string) (bool, bool) {
	switch text {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func parseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	// hex floats (0x1p4) are Go syntax only
	if s == "" || strings.ContainsAny(s, "_pP") {
		return 0, false
	}

	var n float64
	switch s {
	case "Infinity", "+Infinity":
		n = math.Inf(1)
	case "-Infinity":
		n = math.Inf(-1)
	default:
		v, ok := parsePrefixedInt(s)
		if !ok {
			f, err := strconv.ParseFloat(s, 64)
			if errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0) {
				// 1e400 overflows to a signed infinity
				return f, true
			}
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, false
			}
			v = f
		}
		n = v
	}

	if n == 0 {
		return 0, false
	}
	return n, true
}

// parsePrefixedInt handles the 0x, 0o and 0b literal forms.
func parsePrefixedInt(s string) (float64, bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
	default:
		return 0, false
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return float64(v), true
}

func parseDuration(text string) (int64, bool) {
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		return 60 * atoi(m[1]), true
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		return atoi(m[1]), true
	}
	if m := hoursMinutesPattern.FindStringSubmatch(text); m != nil {
		return 60*atoi(m[1]) + atoi(m[2]), true
	}
	return 0, false
}

func (c *Codec) parseDate(text string) (int64, bool) {
	if m := datePattern.FindStringSubmatch(text); m != nil {
		var hour, minute int64
		if m[4] != "" {
			hour, minute = atoi(m[4]), atoi(m[5])
		}
		t := time.Date(int(atoi(m[3])), time.Month(atoi(m[2])), int(atoi(m[1])), int(hour), int(minute), 0, 0, c.loc)
		return t.UnixMilli(), true
	}
	if m := timePattern.FindStringSubmatch(text); m != nil {
		now := c.now().In(c.loc)
		t := time.Date(now.Year(), now.Month(), now.Day(), int(atoi(m[1])), int(atoi(m[2])), 0, 0, c.loc)
		return t.UnixMilli(), true
	}
	return 0, false
}

func (c *Codec) formatDate(millis int64) string {
	t := time.UnixMilli(millis).In(c.loc)
	date := fmt.Sprintf("%02d/%02d/%04d", t.Day(), int(t.Month()), t.Year())
	if t.Hour() == 0 && t.Minute() == 0 {
		return date
	}
	return fmt.Sprintf("%s_%02dh%02d", date, t.Hour(), t.Minute())
}

func formatDuration(minutes int64) string {
	hours, rest := minutes/60, minutes%60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", rest)
	case rest == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh%dm", hours, rest)
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}

	abs := math.Abs(n)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	// 1e+21, 1.5e-7
	s := strconv.FormatFloat(n, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + exp
}

func atoi(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
