package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// BatchResult is the outcome for one ID of a comma-separated batch.
type BatchResult struct {
	ID    int    `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// newEncoder returns an indented encoder that leaves <, > and & in task
// titles unescaped.
func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc
}

// JSON writes data as indented JSON.
func JSON(w io.Writer, data any) error {
	if err := newEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// JSONError writes a structured error. Write failures are ignored since the
// process is about to exit with an error anyway.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = newEncoder(w).Encode(ErrorResponse{Error: msg, Code: code, Details: details})
}
