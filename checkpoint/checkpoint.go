// Package checkpoint decorates errors with the file and line of the place
// where they crossed a package boundary, which gives a short trace of the
// path an error took through the decoder.
//
// A checkpoint keeps both the cause and an optional describing error. Both can
// be matched by errors.Is and errors.As, so callers can test against exported
// sentinels while the original cause stays reachable through errors.Unwrap.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// location is the source position a checkpoint was created at.
type location struct {
	ok   bool
	file string
	line int
}

func here(skip int) location {
	_, file, line, ok := runtime.Caller(skip + 1)
	return location{ok: ok, file: filepath.Base(file), line: line}
}

func (l location) String() string {
	if !l.ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", l.file, l.line)
}

// passThrough reports errors which must never be wrapped because callers
// compare them with ==.
// https://github.com/golang/go/issues/39155
func passThrough(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

// From records the caller position on err.
// It returns nil if err is nil.
func From(err error) error {
	if err == nil || passThrough(err) {
		return err
	}

	return &checkpoint{
		cause: err,
		at:    here(1),
	}
}

// Wrap records the caller position on cause and attaches desc as the error
// describing this checkpoint. It returns nil if cause is nil, so it can be
// used directly on a return value:
//  var ErrReadDir = errors.New("could not read the directory")
//
//  func list() error {
//  	err := read()
//  	return checkpoint.Wrap(err, ErrReadDir)
//  }
// errors.Is then matches ErrReadDir as well as anything in the cause chain.
func Wrap(cause, desc error) error {
	if cause == nil || cause == io.EOF {
		return cause
	}

	return &checkpoint{
		desc:  desc,
		cause: cause,
		at:    here(1),
	}
}

// Wrapf is like Wrap but builds the cause from a format string.
func Wrapf(desc error, format string, args ...interface{}) error {
	return &checkpoint{
		desc:  desc,
		cause: fmt.Errorf(format, args...),
		at:    here(1),
	}
}

type checkpoint struct {
	desc  error
	cause error
	at    location
}

func (c *checkpoint) Error() string {
	var b strings.Builder
	b.WriteString("at ")
	b.WriteString(c.at.String())
	if c.desc != nil {
		b.WriteString(": ")
		b.WriteString(c.desc.Error())
	}

	cause := c.cause.Error()
	if _, ok := c.cause.(*checkpoint); !ok {
		cause = strings.ReplaceAll(cause, "\n", "\n\t")
	}
	b.WriteString("\n\t")
	b.WriteString(cause)
	return b.String()
}

func (c *checkpoint) Unwrap() error {
	return c.cause
}

func (c *checkpoint) Is(target error) bool {
	return c.desc != nil && errors.Is(c.desc, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.desc != nil && errors.As(c.desc, target)
}
