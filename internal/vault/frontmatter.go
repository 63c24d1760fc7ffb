package vault

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fmDelim = "---"

// SplitDocument separates a document into its raw frontmatter block
// (without delimiters) and the remaining body. hasFM is false when the
// document does not open with a delimiter line.
func SplitDocument(doc string) (raw, body string, hasFM bool) {
	lines := strings.Split(doc, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != fmDelim {
		return "", doc, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fmDelim {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", doc, false
}

// ParseFrontmatter decodes a document's YAML header into a key/value map.
// Documents without a header yield an empty map, not an error.
func ParseFrontmatter(doc string) (map[string]any, error) {
	raw, _, hasFM := SplitDocument(doc)
	if !hasFM {
		return map[string]any{}, nil
	}

	fm := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, nil
}

// RenderFrontmatter re-encodes a header map onto a document body.
func RenderFrontmatter(fm map[string]any, body string) (string, error) {
	encoded, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	return fmDelim + "\n" + string(encoded) + fmDelim + "\n" + body, nil
}

// FMString reads a frontmatter value as a string. Missing or mistyped
// keys yield "".
func FMString(fm map[string]any, key string) string {
	if v, ok := fm[key].(string); ok {
		return v
	}
	return ""
}

// FMInt reads a frontmatter value as an int, tolerating the numeric types
// the YAML decoder may produce. ok is false when absent or non-numeric.
func FMInt(fm map[string]any, key string) (int, bool) {
	switch v := fm[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// FMBool reads a frontmatter value as a bool; absent keys are false.
func FMBool(fm map[string]any, key string) bool {
	v, _ := fm[key].(bool)
	return v
}

// FMStrings reads a frontmatter list of strings (e.g. the tags list).
func FMStrings(fm map[string]any, key string) []string {
	raw, ok := fm[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
