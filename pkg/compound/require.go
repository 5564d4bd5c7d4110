package compound

import (
	"lending/core"
)

const (
	// FlagNone plain validation failure
	FlagNone = 0
	// FlagNoisy failure worth an error level log
	FlagNoisy = 1 << iota
)

// Error validation failure carrying the error code it maps to
type Error struct {
	Msg  string
	Code core.ErrorCode
	Flag int
}

func (e *Error) Error() string {
	return e.Msg + ": " + e.Code.Error()
}

// Unwrap exposes the code to errors.Is
func (e *Error) Unwrap() error {
	return e.Code
}

// Noisy reports whether FlagNoisy is set
func (e *Error) Noisy() bool {
	return e.Flag&FlagNoisy != 0
}

// Require returns an *Error when condition is false
func Require(condition bool, msg string, code core.ErrorCode, flags ...int) error {
	if condition {
		return nil
	}

	flag := FlagNone
	for _, f := range flags {
		flag |= f
	}

	return &Error{Msg: msg, Code: code, Flag: flag}
}
