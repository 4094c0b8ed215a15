// Package response models an HTTP outcome as a status code plus a
// JSON-serializable body, and turns it into wire bytes.
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Common status codes produced by the server
const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusInternalServerError = 500
)

var reasonPhrases = map[int]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusUnauthorized:        "Unauthorized",
	StatusForbidden:           "Forbidden",
	StatusNotFound:            "Not Found",
	StatusInternalServerError: "Internal Server Error",
}

// ReasonPhrase returns the textual reason for a status code, or
// "Unknown Status" for codes outside the table
func ReasonPhrase(code int) string {
	if phrase, ok := reasonPhrases[code]; ok {
		return phrase
	}
	return "Unknown Status"
}

// Response pairs a status code with a body. The body is marshalled to JSON
// at write time; a nil body serializes as an empty JSON object.
type Response struct {
	StatusCode int
	Body       any
}

// New creates a Response
func New(statusCode int, body any) *Response {
	return &Response{
		StatusCode: statusCode,
		Body:       body,
	}
}

// WriteTo serializes the response to w: status line, Content-Type,
// Content-Length equal to the exact byte length of the JSON body,
// Connection: close, blank line, body. Each line is CRLF-terminated.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	body := r.Body
	if body == nil {
		body = map[string]any{}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize response body: %w", err)
	}

	head := fmt.Sprintf("HTTP/1.1 %d %s\r\n", r.StatusCode, ReasonPhrase(r.StatusCode)) +
		"Content-Type: application/json\r\n" +
		fmt.Sprintf("Content-Length: %d\r\n", len(payload)) +
		"Connection: close\r\n" +
		"\r\n"

	n, err := io.WriteString(w, head)
	total := int64(n)
	if err != nil {
		return total, err
	}

	n, err = w.Write(payload)
	total += int64(n)
	return total, err
}

// Bytes returns the full serialized response
func (r *Response) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
