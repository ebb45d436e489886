// Package idx generates prefixed, time-sortable identifiers such as
// "pst_01JA2B3C4D5E6F7G8H9J0KMNPQ".
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind is the prefix naming what an ID refers to.
type Kind string

const (
	User      Kind = "usr"
	Session   Kind = "ses"
	Refresh   Kind = "rft"
	Post      Kind = "pst"
	Comment   Kind = "cmt"
	Topic     Kind = "top"
	Message   Kind = "msg"
	Education Kind = "edu"
	License   Kind = "lic"
	Challenge Kind = "chl"
	Reset     Kind = "rst"
	Request   Kind = "req"
)

const sep = "_"

// ErrInvalid reports a malformed ID or one of the wrong kind.
var ErrInvalid = errors.New("idx: invalid id")

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a new ID of kind k stamped with the current time.
func New(k Kind) string {
	return NewAt(k, time.Now().UTC())
}

// NewAt returns an ID of kind k stamped with t. IDs created within the same
// millisecond still sort in creation order.
func NewAt(k Kind, t time.Time) string {
	mu.Lock()
	u := ulid.MustNew(ulid.Timestamp(t), entropy)
	mu.Unlock()
	return string(k) + sep + u.String()
}

// NewRequestID returns an ID for log correlation.
func NewRequestID() string { return New(Request) }

// Parse checks that s is a well-formed ID of kind k and returns it trimmed.
func Parse(k Kind, s string) (string, error) {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, string(k)+sep)
	if !ok {
		return "", ErrInvalid
	}
	if _, err := ulid.ParseStrict(rest); err != nil {
		return "", ErrInvalid
	}
	return s, nil
}

// KindOf returns the prefix of s, or "" if s has none.
func KindOf(s string) Kind {
	k, _, ok := strings.Cut(s, sep)
	if !ok {
		return ""
	}
	return Kind(k)
}

// Time returns the timestamp embedded in s, or the zero time when s is not a
// valid ID.
func Time(s string) time.Time {
	_, rest, ok := strings.Cut(s, sep)
	if !ok {
		return time.Time{}
	}
	u, err := ulid.ParseStrict(rest)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}
