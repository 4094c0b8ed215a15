// Package request parses the request line and header block of an HTTP/1.x
// request from a raw connection. Bodies are never read: only GET is
// routable, so everything after the header block is ignored.
package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Karim-Chrif/simple-http-server/pkg/headers"
)

// Sentinel errors distinguishing a stream that ended too early from one
// that carried syntactically invalid bytes. The server closes silently on
// ErrTruncated and answers 400 on ErrMalformed.
var (
	ErrMalformed = errors.New("malformed request")
	ErrTruncated = errors.New("truncated request")
)

// Parser states
const (
	stateRequestLine = iota
	stateHeaders
	stateDone
)

const crlf = "\r\n"

// initial read buffer size; doubles as needed
const bufferSize = 512

// Request is one parsed HTTP request
type Request struct {
	Method  string
	Path    string
	Proto   string
	Headers headers.Headers

	state int
}

// FromReader reads from r until a complete request line and header block
// have been parsed, growing the buffer as needed
func FromReader(r io.Reader) (*Request, error) {
	req := &Request{
		Headers: headers.New(),
		state:   stateRequestLine,
	}

	buf := make([]byte, bufferSize)
	filled := 0

	for req.state != stateDone {
		if filled == len(buf) {
			grown := make([]byte, len(buf)*2)
			copy(grown, buf)
			buf = grown
		}

		n, err := r.Read(buf[filled:])
		filled += n

		if n > 0 {
			consumed, parseErr := req.consume(buf[:filled])
			if parseErr != nil {
				return nil, parseErr
			}
			if consumed > 0 {
				copy(buf, buf[consumed:filled])
				filled -= consumed
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
	}

	if req.state != stateDone {
		if filled == 0 && req.state == stateRequestLine && req.Method == "" {
			return nil, fmt.Errorf("%w: empty stream", ErrTruncated)
		}
		return nil, fmt.Errorf("%w: connection closed before header block completed", ErrTruncated)
	}

	return req, nil
}

// consume advances the parser over as much of data as possible and returns
// the number of bytes used
func (r *Request) consume(data []byte) (int, error) {
	total := 0

	for r.state != stateDone {
		n, err := r.consumeOne(data[total:])
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
		total += n
	}

	return total, nil
}

func (r *Request) consumeOne(data []byte) (int, error) {
	switch r.state {
	case stateRequestLine:
		idx := bytes.Index(data, []byte(crlf))
		if idx == -1 {
			return 0, nil
		}
		if err := r.parseRequestLine(string(data[:idx])); err != nil {
			return 0, err
		}
		r.state = stateHeaders
		return idx + len(crlf), nil

	case stateHeaders:
		n, done, err := r.Headers.Parse(data)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if done {
			r.state = stateDone
		}
		return n, nil

	default:
		return 0, fmt.Errorf("%w: parser already done", ErrMalformed)
	}
}

// parseRequestLine splits "METHOD SP PATH SP VERSION" and validates each part
func (r *Request) parseRequestLine(line string) error {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return fmt.Errorf("%w: bad request line %q", ErrMalformed, line)
	}

	method := parts[0]
	if method == "" {
		return fmt.Errorf("%w: empty method in %q", ErrMalformed, line)
	}
	for _, c := range method {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("%w: invalid method %q", ErrMalformed, method)
		}
	}

	path := parts[1]
	if path == "" {
		return fmt.Errorf("%w: empty path in %q", ErrMalformed, line)
	}

	proto := parts[2]
	if proto != "HTTP/1.0" && proto != "HTTP/1.1" {
		return fmt.Errorf("%w: unsupported protocol %q", ErrMalformed, proto)
	}

	r.Method = method
	r.Path = path
	r.Proto = proto
	return nil
}
