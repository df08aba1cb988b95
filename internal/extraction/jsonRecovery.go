package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("model reply holds no JSON object")

// RecoverJSON returns the JSON object in a model reply. The reply is parsed
// as is first, then trimmed to the outermost braces.
func RecoverJSON(reply string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(reply)
	if isObject(trimmed) {
		return compact(trimmed)
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return nil, ErrNoJSON
	}
	candidate := trimmed[start : end+1]
	if !isObject(candidate) {
		return nil, ErrNoJSON
	}
	return compact(candidate)
}

func isObject(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var v map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &v) == nil
}

func compact(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
