package llm

import "encoding/json"

// inputText renders the input part of a request. Strings are sent as-is,
// anything else as indented JSON.
func inputText(input any) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	}
	in, _ := json.MarshalIndent(input, "", "  ")
	return "[INPUT JSON]\n" + string(in)
}
