package codes

import (
	"errors"
	"strconv"

	"lending/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// With with specified error
func With(err error, code int) error {
	var twerr twirp.Error
	if !errors.As(err, &twerr) {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// FromError converts an engine error into a twirp error carrying the
// numeric error code in its meta
func FromError(err error) twirp.Error {
	var twerr twirp.Error
	if errors.As(err, &twerr) {
		return twerr
	}

	code := core.CodeOf(err)

	var tc twirp.ErrorCode
	switch code.Class() {
	case core.ErrorClassValidation:
		tc = twirp.InvalidArgument
	case core.ErrorClassSolvency, core.ErrorClassLiquidation:
		tc = twirp.FailedPrecondition
	case core.ErrorClassAccess:
		tc = twirp.PermissionDenied
	case core.ErrorClassGuard, core.ErrorClassDependency:
		tc = twirp.Unavailable
	case core.ErrorClassInvariant:
		if code == core.ErrConcurrentUpdate {
			tc = twirp.Aborted
		} else {
			tc = twirp.FailedPrecondition
		}
	default:
		return twirp.InternalErrorWith(err)
	}

	return twirp.NewError(tc, err.Error()).WithMeta(CustomCodeKey, code.String())
}
