package headers

import (
	"testing"
)

func TestParseSingleHeader(t *testing.T) {
	h := New()

	data := []byte("Host: localhost:65432\r\n\r\n")
	n, done, err := h.Parse(data)
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if done {
		t.Errorf("Parse should not report done after one header line")
	}
	if n != len("Host: localhost:65432\r\n") {
		t.Errorf("Expected %d bytes consumed, got %d", len("Host: localhost:65432\r\n"), n)
	}
	if got := h.Get("host"); got != "localhost:65432" {
		t.Errorf("Expected host 'localhost:65432', got '%s'", got)
	}
}

func TestParseTerminator(t *testing.T) {
	h := New()

	n, done, err := h.Parse([]byte("\r\nleftover"))
	if err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}
	if !done {
		t.Errorf("Parse should report done on the empty line")
	}
	if n != 2 {
		t.Errorf("Expected 2 bytes consumed for the terminator, got %d", n)
	}
}

func TestParseIncomplete(t *testing.T) {
	h := New()

	// No CRLF yet: nothing to consume, no error
	n, done, err := h.Parse([]byte("Host: local"))
	if err != nil {
		t.Fatalf("Parse returned an error for incomplete data: %v", err)
	}
	if done || n != 0 {
		t.Errorf("Expected (0, false) for incomplete data, got (%d, %v)", n, done)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"missing colon", "Host localhost\r\n"},
		{"space before colon", "Host : localhost\r\n"},
		{"empty name", ": localhost\r\n"},
		{"invalid character", "Ho@st: localhost\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			_, _, err := h.Parse([]byte(tt.line))
			if err == nil {
				t.Errorf("Expected an error for %q", tt.line)
			}
		})
	}
}

func TestCaseInsensitiveLookup(t *testing.T) {
	h := New()

	if _, _, err := h.Parse([]byte("AUTHORIZATION: Bearer abc\r\n")); err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}

	if got := h.Get("Authorization"); got != "Bearer abc" {
		t.Errorf("Expected 'Bearer abc' via mixed-case lookup, got '%s'", got)
	}
	if got := h.Get("authorization"); got != "Bearer abc" {
		t.Errorf("Expected 'Bearer abc' via lower-case lookup, got '%s'", got)
	}
	if !h.Has("AuThOrIzAtIoN") {
		t.Errorf("Has should fold case")
	}
	if h.Has("x-missing") {
		t.Errorf("Has should be false for an absent field")
	}
}

func TestRepeatedFieldsCombine(t *testing.T) {
	h := New()

	input := "Accept: text/html\r\nAccept: application/json\r\n"
	rest := []byte(input)
	for len(rest) > 0 {
		n, done, err := h.Parse(rest)
		if err != nil {
			t.Fatalf("Parse returned an error: %v", err)
		}
		if n == 0 || done {
			break
		}
		rest = rest[n:]
	}

	if got := h.Get("accept"); got != "text/html, application/json" {
		t.Errorf("Expected combined value, got '%s'", got)
	}
}

func TestSetReplaces(t *testing.T) {
	h := New()
	h.Set("Content-Type", "text/plain")
	h.Set("content-type", "application/json")

	if got := h.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected Set to replace, got '%s'", got)
	}
	if len(h) != 1 {
		t.Errorf("Expected one entry after case-folded Set calls, got %d", len(h))
	}
}

func TestValueWhitespaceTrimmed(t *testing.T) {
	h := New()

	if _, _, err := h.Parse([]byte("X-Token:    padded value   \r\n")); err != nil {
		t.Fatalf("Parse returned an error: %v", err)
	}

	if got := h.Get("x-token"); got != "padded value" {
		t.Errorf("Expected trimmed value 'padded value', got '%s'", got)
	}
}
