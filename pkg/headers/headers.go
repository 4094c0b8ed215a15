// Package headers implements the case-insensitive header map shared by
// request parsing and the authorization gate. Field names are folded to
// lower case on every write and lookup, so Get("Authorization") sees a
// header that arrived as "authorization: x".
package headers

import (
	"bytes"
	"fmt"
	"strings"
)

const crlf = "\r\n"

// Headers maps lower-cased field names to field values
type Headers map[string]string

// New returns an empty header map
func New() Headers {
	return make(Headers)
}

// Parse consumes at most one header line from data. It returns the number
// of bytes consumed, done=true when the empty line terminating the header
// block was consumed, and an error for a malformed line. A return of
// (0, false, nil) means data does not yet hold a full line.
func (h Headers) Parse(data []byte) (n int, done bool, err error) {
	idx := bytes.Index(data, []byte(crlf))
	if idx == -1 {
		return 0, false, nil
	}
	if idx == 0 {
		// Empty line: end of the header block
		return len(crlf), true, nil
	}

	line := string(data[:idx])
	name, value, found := strings.Cut(line, ":")
	if !found {
		return 0, false, fmt.Errorf("malformed header line: %q", line)
	}

	// RFC 9112 forbids whitespace between the field name and the colon
	if strings.TrimRight(name, " \t") != name {
		return 0, false, fmt.Errorf("whitespace before colon in header line: %q", line)
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return 0, false, fmt.Errorf("empty header name in line: %q", line)
	}
	if !validFieldName(key) {
		return 0, false, fmt.Errorf("invalid character in header name: %q", key)
	}

	val := strings.TrimSpace(value)
	if existing, ok := h[key]; ok {
		// Repeated fields combine into a comma-separated list
		h[key] = existing + ", " + val
	} else {
		h[key] = val
	}

	return idx + len(crlf), false, nil
}

// Get returns the value for a field name, folding case. Missing fields
// return the empty string.
func (h Headers) Get(key string) string {
	return h[strings.ToLower(key)]
}

// Has reports whether a field name is present, folding case
func (h Headers) Has(key string) bool {
	_, ok := h[strings.ToLower(key)]
	return ok
}

// Set stores a value for a field name, folding case and replacing any
// existing value
func (h Headers) Set(key, value string) {
	h[strings.ToLower(key)] = value
}

// validFieldName reports whether key contains only RFC 9110 token characters
func validFieldName(key string) bool {
	for _, c := range key {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case strings.ContainsRune("!#$%&'*+-.^_`|~", c):
		default:
			return false
		}
	}
	return true
}
