package toolexec

import (
	"fmt"
	"strconv"
	"strings"

	dps "github.com/markusmobius/go-dateparser"
)

// Params is the loosely-typed parameter bag an intent call is invoked with,
// mirroring the original's plain dict[str, Any].
type Params map[string]interface{}

func (p Params) str(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (p Params) intOrDefault(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

func (p Params) boolOrDefault(key string, def bool) bool {
	v, ok := p[key]
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// RequireParams returns the missing required params in the order given, or nil
// if all are present and non-empty.
func RequireParams(p Params, required ...string) []string {
	var missing []string
	for _, name := range required {
		v, ok := p[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// ClampTailLines clamps tail_lines to [1, 5000] (SPEC_FULL §4.1), defaulting
// to 200 when absent, matching the original's default.
func ClampTailLines(p Params) int {
	return clampInt(p.intOrDefault("tail_lines", 200), 1, 5000)
}

// ClampRangeMinutes clamps range_minutes to [1, 1440].
func ClampRangeMinutes(p Params, def int) int {
	return clampInt(p.intOrDefault("range_minutes", def), 1, 1440)
}

// ClampSinceMinutes clamps since_minutes to [1, 1440].
func ClampSinceMinutes(p Params, def int) int {
	return clampInt(p.intOrDefault("since_minutes", def), 1, 1440)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ParseFreeFormTime parses a free-form time string — either a Unix
// timestamp or a human-readable date — into Unix seconds, the same
// two-stage strategy as the teacher's internal/api/dateparser.go
// (ParseTimestamp).
func ParseFreeFormTime(value, fieldName string) (int64, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is required", fieldName)
	}
	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		if unix < 0 {
			return 0, fmt.Errorf("%s must be non-negative", fieldName)
		}
		return unix, nil
	}

	parser := dps.Parser{}
	cfg := &dps.Configuration{PreferredDateSource: dps.CurrentPeriod}
	parsed, err := parser.Parse(cfg, value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid unix timestamp or human-readable date: %w", fieldName, err)
	}
	if parsed.IsZero() {
		return 0, fmt.Errorf("%s could not be parsed: %s", fieldName, value)
	}
	return parsed.Time.Unix(), nil
}

// missingParamsError formats the exact error string SPEC_FULL §4.1
// requires for a missing-params ToolResult.
func missingParamsError(missing []string) string {
	return "missing: " + strings.Join(missing, ", ")
}
