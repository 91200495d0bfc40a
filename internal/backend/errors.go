package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Kind classifies a failed backend call.
type Kind string

const (
	KindTransport    Kind = "transport"
	KindValidation   Kind = "validation"
	KindMalformed    Kind = "malformed"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindServer       Kind = "server"
	KindUnknown      Kind = "unknown"
)

// Error is returned by every Client method that fails.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a backend error anywhere in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// MessageOf returns the backend-supplied message of err, if any.
func MessageOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func malformedError(op string, status int, err error) *Error {
	return &Error{Kind: KindMalformed, Op: op, StatusCode: status, Err: err}
}

// statusError builds the error for a non-2xx response.
func statusError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, StatusCode: status, Message: extractMessage(body)}
	switch {
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindUnauthorized
	case status >= 400 && status < 500:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

const maxMessageBytes = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// extractMessage pulls a human readable message out of a REST error body.
// It understands {"detail": ...}, {"error": ...}, {"message": ...} and
// per-field error maps such as {"serial_number": ["already exists"]}.
func extractMessage(body []byte) string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return ""
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return truncate(string(body), maxMessageBytes)
	}
	switch v := payload.(type) {
	case map[string]any:
		for _, key := range []string{"detail", "error", "message"} {
			if msg, ok := v[key]; ok {
				if s := flatten(msg); s != "" {
					return s
				}
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := flatten(v[k]); s != "" {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return flatten(v)
	}
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case nil:
		return ""
	case bool:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
