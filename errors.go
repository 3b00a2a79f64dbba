package vaxpatch

import (
	"errors"
	"fmt"
)

var (
	ErrUsage            = errors.New("usage error")
	ErrNoTarget         = errors.New("no target file open yet")
	ErrNoCmdTarget      = errors.New("no command-line filename was supplied, yet '^*' (make backup) sequence found")
	ErrBadHexDigit      = errors.New("invalid patch file: not a hexdigit")
	ErrUnknownDirective = errors.New("invalid patch file: unknown command")
)

// EOF is the Actual value of a MismatchError when the target ended before
// all expected bytes were read.
const EOF = -1

// MismatchError reports a '>' directive whose expected byte differs from the
// byte found in the target.
type MismatchError struct {
	Offset   int64
	Expected byte
	Actual   int
}

func (e *MismatchError) Error() string {
	found := "EOF"
	if e.Actual != EOF {
		found = fmt.Sprintf("0x%02X", e.Actual)
	}
	return fmt.Sprintf("expected 0x%02X, but instead found %s at offset 0x%08X (file either invalid or patched already)",
		e.Expected, found, e.Offset)
}

// LineError ties an error to the script line that caused it.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
