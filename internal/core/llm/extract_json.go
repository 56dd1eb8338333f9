package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the outermost JSON value out of a response that may be
// wrapped in prose or markdown fencing. When both a valid object and a
// valid array are present, the one that starts earlier wins. Returns the
// input unchanged when nothing valid is found.
func ExtractJSON(text string) string {
	objStart, obj := candidate(text, "{", "}")
	arrStart, arr := candidate(text, "[", "]")

	objValid := obj != "" && json.Valid([]byte(obj))
	arrValid := arr != "" && json.Valid([]byte(arr))

	switch {
	case objValid && arrValid:
		if arrStart < objStart {
			return arr
		}

		return obj
	case objValid:
		return obj
	case arrValid:
		return arr
	default:
		return text
	}
}

func candidate(text, open, close string) (int, string) {
	start := strings.Index(text, open)
	end := strings.LastIndex(text, close)

	if start == -1 || end == -1 || end < start {
		return -1, ""
	}

	return start, text[start : end+1]
}
