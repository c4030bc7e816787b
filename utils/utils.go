package utils

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// TrimQuotes removes surrounding whitespace and any single or double quotes,
// as added by shells or .env files.
func TrimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

func JSONIndent(body string) string {
	var buf bytes.Buffer
	_ = json.Indent(&buf, []byte(body), "", "\t")
	return buf.String()
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

// ToYAML returns YAML representation of val.
// Values are first converted through JSON, so json tags and
// custom JSON marshalers are respected.
func ToYAML(val any) string {
	js, err := json.Marshal(val)
	if err != nil {
		return ""
	}
	var generic any
	if err = json.Unmarshal(js, &generic); err != nil {
		return ""
	}
	ys, _ := yaml.Marshal(generic)
	return string(ys)
}

