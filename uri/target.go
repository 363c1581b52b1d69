// Package uri implements the request-target split (scheme/host/path/query)
// and the path traverser the routing core iterates over. Full URI parsing
// (query-string decoding, userinfo, fragments) is an external collaborator
// per the core's scope — this package only goes as far as producing a
// path string for the traverser to segment.
package uri

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyTarget is returned by ParseTarget for an empty request-target.
var ErrEmptyTarget = errors.New("uri: empty request-target")

// ErrInvalidTarget is returned for a request-target containing characters
// that cannot appear in a request line.
var ErrInvalidTarget = errors.New("uri: invalid characters in request-target")

// Target is a minimal parse of an HTTP request-target (RFC 7230 §5.3):
// origin-form, absolute-form, or the asterisk-form used by `OPTIONS *`.
type Target struct {
	Scheme   string
	Host     string
	Path     string
	RawQuery string
}

// ParseTarget parses raw per RFC 7230 §5.3. Supported forms:
//   - origin-form:   /path?query
//   - absolute-form: http://host/path?query
//   - asterisk-form: *
func ParseTarget(raw string) (Target, error) {
	if raw == "" {
		return Target{}, ErrEmptyTarget
	}
	if strings.ContainsAny(raw, " \r\n") {
		return Target{}, ErrInvalidTarget
	}

	if raw == "*" {
		return Target{Path: "*"}, nil
	}

	var t Target
	switch {
	case strings.HasPrefix(raw, "http://"):
		t.Scheme = "http"
		raw = splitHost(&t, strings.TrimPrefix(raw, "http://"))
	case strings.HasPrefix(raw, "https://"):
		t.Scheme = "https"
		raw = splitHost(&t, strings.TrimPrefix(raw, "https://"))
	}
	if t.Path != "" {
		// splitHost already produced a bare-host absolute-form with no path.
		return t, nil
	}

	if qmark := strings.IndexByte(raw, '?'); qmark >= 0 {
		t.Path = raw[:qmark]
		t.RawQuery = raw[qmark+1:]
	} else {
		t.Path = raw
	}
	if t.Path == "" {
		t.Path = "/"
	}
	return t, nil
}

// splitHost extracts the authority from rest, writes it into t, and
// returns the remaining path+query (or "" if rest had no path, in which
// case t.Path is set to "/" directly).
func splitHost(t *Target, rest string) string {
	slash := strings.IndexByte(rest, '/')
	if slash == -1 {
		t.Host = strings.ToLower(rest)
		t.Path = "/"
		return ""
	}
	t.Host = strings.ToLower(rest[:slash])
	return rest[slash:]
}
