package transport

import "encoding/json"

// Envelope wraps the JSON payloads served next to the HTML pages (today
// only the health endpoint).
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

// NewError returns an error envelope.
func NewError(code string, err interface{}) Envelope {
	return Envelope{Status: "error", Code: code, Error: err}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
