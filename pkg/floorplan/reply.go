package floorplan

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?i)^```[a-z]*\n?")

// ParseError is returned when a model reply cannot be parsed as a JSON
// object. It carries the error of the direct parse attempt.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "could not parse model reply: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseReply parses a model reply into a JSON object. Replies wrapped in
// markdown code fences are unwrapped, and replies that arrive as a JSON
// string literal containing JSON are decoded twice.
func ParseReply(raw string) (map[string]any, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		text = fencePattern.ReplaceAllString(text, "")
		text = strings.TrimRight(text, "`")
		text = strings.TrimSpace(text)
	}

	var result map[string]any

	direct := json.Unmarshal([]byte(text), &result)

	if direct == nil {
		return result, nil
	}

	var inner string

	if err := json.Unmarshal([]byte(text), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &result); err == nil {
			return result, nil
		}
	}

	return nil, &ParseError{Err: direct}
}
