package extract

import (
	"bytes"
	"encoding/json"
)

// Marshal renders r as indented UTF-8 JSON with sorted keys. Non-ASCII and
// HTML-significant characters are written as is.
func Marshal(r *Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
