package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DecodeLooseJSON parses JSON out of model output that may be:
// - pure JSON
// - JSON wrapped in markdown code fences (```json ... ```)
// - JSON embedded in surrounding prose
// - JSON with minor formatting defects (trailing commas, unquoted keys)
func DecodeLooseJSON(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	// Most responses are already valid JSON.
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if fenced := stripFences(input); fenced != "" {
		if err := json.Unmarshal([]byte(fenced), target); err == nil {
			return nil
		}
	}

	if embedded := firstJSONValue(input); embedded != "" {
		if err := json.Unmarshal([]byte(embedded), target); err == nil {
			return nil
		}
	}

	if repaired := repairJSON(input); repaired != "" {
		if err := json.Unmarshal([]byte(repaired), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON in input: %s", truncate(input, 100))
}

// stripFences extracts the body of a markdown code fence.
func stripFences(input string) string {
	re := regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	matches := re.FindStringSubmatch(input)
	if len(matches) < 2 {
		return ""
	}
	body := strings.TrimSpace(matches[1])
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		return body
	}
	return ""
}

// firstJSONValue finds the first balanced JSON object or array in text.
func firstJSONValue(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if v := balancedSlice(input[start:], '{', '}'); v != "" {
			return v
		}
	}
	if start := strings.Index(input, "["); start >= 0 {
		if v := balancedSlice(input[start:], '[', ']'); v != "" {
			return v
		}
	}
	return ""
}

// balancedSlice returns the prefix of input spanning one balanced open/close
// pair, respecting string literals and escapes.
func balancedSlice(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		if ch == '\\' {
			escape = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlCharRe   = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// repairJSON fixes the defects models most often produce.
func repairJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\ufeff")
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = bareKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	s = controlCharRe.ReplaceAllString(s, "")
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
