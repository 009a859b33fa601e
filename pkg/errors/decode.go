package errors

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// FromResponse converts a non-2xx API response into a typed error. The body is
// read defensively: the API may send {"error": "..."}, {"errors": [...]},
// {"message": "..."}, an HTML page, or nothing at all.
func FromResponse(status int, body []byte) *Error {
	messages := bodyMessages(body)

	var base *Error
	switch {
	case status == http.StatusUnauthorized:
		base = ErrUnauthorized
	case status == http.StatusForbidden:
		base = ErrForbidden
	case status == http.StatusNotFound:
		base = ErrNotFound
	case status == http.StatusConflict:
		base = ErrConflict
	case status >= http.StatusInternalServerError:
		// server internals are never surfaced
		e := Clone(ErrServiceUnavailable, "")
		e.Status = status
		return e
	default:
		base = ErrRejected
	}

	e := Clone(base, "")
	e.Status = status
	if len(messages) > 0 {
		e.Messages = messages
	}
	return e
}

// FromTransport wraps an error raised before any response was received.
func FromTransport(err error) *Error {
	return Wrap(err, ErrNetwork, "")
}

func bodyMessages(body []byte) []string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil
	}

	var out []string
	if list := parsed.Get("errors"); list.Exists() {
		switch {
		case list.IsArray():
			list.ForEach(func(_, value gjson.Result) bool {
				out = appendMessage(out, value)
				return true
			})
		case list.IsObject():
			// {"errors": {"field": ["msg", ...]}}
			list.ForEach(func(key, value gjson.Result) bool {
				if value.IsArray() {
					value.ForEach(func(_, v gjson.Result) bool {
						out = appendMessage(out, v, key.String())
						return true
					})
					return true
				}
				out = appendMessage(out, value, key.String())
				return true
			})
		default:
			out = appendMessage(out, list)
		}
	}
	if len(out) == 0 {
		out = appendMessage(out, parsed.Get("error"))
	}
	if len(out) == 0 {
		out = appendMessage(out, parsed.Get("message"))
	}
	return out
}

func appendMessage(out []string, value gjson.Result, prefix ...string) []string {
	var text string
	switch {
	case !value.Exists(), value.Type == gjson.Null:
		return out
	case value.Type == gjson.String:
		text = value.String()
	case value.IsObject():
		text = value.Get("message").String()
	default:
		text = value.Raw
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return out
	}
	if len(prefix) > 0 && prefix[0] != "" {
		text = prefix[0] + " " + text
	}
	return append(out, text)
}
