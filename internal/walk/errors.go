package lazydir

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by Sender.Send once the consumer has gone away.
	ErrClosed = errors.New("lazydir: consumer closed")

	// ErrStarted is returned when the traversal mode is changed after the
	// first call to Next.
	ErrStarted = errors.New("lazydir: traversal already started")
)

// ErrorKind classifies the failures a walk can produce.
type ErrorKind int

const (
	KindFile    ErrorKind = iota // Resolving a root or listing a directory failed
	KindChannel                  // Handing a path to the consumer failed
)

func (k ErrorKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindChannel:
		return "channel"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error carries the kind of a failure together with the path it concerns
// and the underlying cause.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("lazydir: %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("lazydir: %s error: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fileError(path string, err error) error {
	return &Error{Kind: KindFile, Path: path, Err: err}
}

func channelError(path string, err error) error {
	return &Error{Kind: KindChannel, Path: path, Err: err}
}

// IsFileError reports whether err is, or wraps, a KindFile error.
func IsFileError(err error) bool {
	return kindOf(err) == KindFile
}

// IsChannelError reports whether err is, or wraps, a KindChannel error.
func IsChannelError(err error) bool {
	return kindOf(err) == KindChannel
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return -1
}
