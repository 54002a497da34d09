// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import "strings"

// RepairTruncatedJSON structurally closes a JSON string that was cut off
// mid-stream, the dominant failure mode when a model hits its output token
// limit. It walks the input tracking whether the scan position is inside a
// quoted string (honoring backslash escapes) and a stack of brace/bracket
// openers seen outside strings. If the scan ends inside a string one closing
// quote is appended; then a closer is appended for every open container in
// reverse order.
//
// The result is parseable whenever the input was valid JSON up to the cut:
// no lost content is recovered, a field interrupted mid-value keeps only its
// prefix. Applying the function to already-balanced input returns it
// unchanged, so repair is idempotent.
func RepairTruncatedJSON(raw string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if escaped {
			escaped = false
			continue
		}

		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(raw)

	// A trailing lone backslash would escape the quote we are about to add.
	if escaped {
		sb.WriteByte('\\')
	}
	if inString || escaped {
		sb.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			sb.WriteByte('}')
		} else {
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// StripCodeFences removes a surrounding Markdown code fence (```json ... ```
// or ``` ... ```) that models often wrap JSON responses in, along with
// leading/trailing whitespace. Input without fences passes through trimmed.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
