package core

import (
	"errors"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrForbidden caller is not allowed to run the operation
	ErrForbidden ErrorCode = 100001
	// ErrPaused engine paused
	ErrPaused ErrorCode = 100002
	// ErrReentrantCall nested call while another operation is in flight
	ErrReentrantCall ErrorCode = 100003

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrAssetNotSupported asset unknown or disabled in the registry
	ErrAssetNotSupported ErrorCode = 100102
	// ErrAssetExists asset already registered
	ErrAssetExists ErrorCode = 100103
	// ErrInvalidAssetConfig bad asset configuration
	ErrInvalidAssetConfig ErrorCode = 100104
	// ErrInvalidUser bad user identifier
	ErrInvalidUser ErrorCode = 100105
	// ErrNoDebt repay without an outstanding borrow
	ErrNoDebt ErrorCode = 100106

	// ErrInsufficientLiquidity pool cannot fund the operation
	ErrInsufficientLiquidity ErrorCode = 100201
	// ErrInsufficientBalance withdraw more than deposited
	ErrInsufficientBalance ErrorCode = 100202
	// ErrExceedsMaxBorrowFactor borrow above the borrow limit
	ErrExceedsMaxBorrowFactor ErrorCode = 100203
	// ErrWithdrawExceedsThreshold withdraw would leave the account under collateralized
	ErrWithdrawExceedsThreshold ErrorCode = 100204

	// ErrNotLiquidatable health factor not below one
	ErrNotLiquidatable ErrorCode = 100301
	// ErrSelfLiquidation liquidator is the borrower
	ErrSelfLiquidation ErrorCode = 100302
	// ErrInsufficientCollateral seize above the borrower's collateral
	ErrInsufficientCollateral ErrorCode = 100303
	// ErrHealthFactorNotImproved liquidation does not improve the borrower
	ErrHealthFactorNotImproved ErrorCode = 100304
	// ErrLiquidatorInsolvent liquidator would end up under collateralized
	ErrLiquidatorInsolvent ErrorCode = 100305

	// ErrOverflow arithmetic overflow
	ErrOverflow ErrorCode = 100401
	// ErrDivisionByZero division by zero
	ErrDivisionByZero ErrorCode = 100402
	// ErrDepositsAboveCeiling deposits too large for rate math
	ErrDepositsAboveCeiling ErrorCode = 100403
	// ErrBorrowsExceedDeposits utilization above one
	ErrBorrowsExceedDeposits ErrorCode = 100404
	// ErrConcurrentUpdate optimistic version mismatch
	ErrConcurrentUpdate ErrorCode = 100405

	// ErrInvalidPrice non positive price
	ErrInvalidPrice ErrorCode = 100501
	// ErrStalePrice price older than the max age
	ErrStalePrice ErrorCode = 100502
	// ErrTransferFailed token transfer failed
	ErrTransferFailed ErrorCode = 100503
	// ErrMintFailed reward mint failed
	ErrMintFailed ErrorCode = 100504
	// ErrPriceUnavailable price feed unreachable
	ErrPriceUnavailable ErrorCode = 100505
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                  "unknown error",
	ErrForbidden:                "operation forbidden",
	ErrPaused:                   "engine paused",
	ErrReentrantCall:            "reentrant call",
	ErrInvalidAmount:            "invalid amount",
	ErrAssetNotSupported:        "asset not supported",
	ErrAssetExists:              "asset already exists",
	ErrInvalidAssetConfig:       "invalid asset config",
	ErrInvalidUser:              "invalid user",
	ErrNoDebt:                   "no debt to repay",
	ErrInsufficientLiquidity:    "insufficient liquidity",
	ErrInsufficientBalance:      "insufficient balance",
	ErrExceedsMaxBorrowFactor:   "exceeds max borrow factor",
	ErrWithdrawExceedsThreshold: "withdraw exceeds liquidation threshold",
	ErrNotLiquidatable:          "position not liquidatable",
	ErrSelfLiquidation:          "cannot liquidate own position",
	ErrInsufficientCollateral:   "insufficient collateral",
	ErrHealthFactorNotImproved:  "health factor not improved",
	ErrLiquidatorInsolvent:      "liquidator insolvent",
	ErrOverflow:                 "arithmetic overflow",
	ErrDivisionByZero:           "division by zero",
	ErrDepositsAboveCeiling:     "deposits above ceiling",
	ErrBorrowsExceedDeposits:    "borrows exceed deposits",
	ErrConcurrentUpdate:         "concurrent update",
	ErrInvalidPrice:             "invalid price",
	ErrStalePrice:               "stale price",
	ErrTransferFailed:           "transfer failed",
	ErrMintFailed:               "mint failed",
	ErrPriceUnavailable:         "price unavailable",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}

// Class error class, derived from the code range
func (e ErrorCode) Class() ErrorClass {
	switch int(e) / 100 {
	case 1001:
		return ErrorClassValidation
	case 1002:
		return ErrorClassSolvency
	case 1003:
		return ErrorClassLiquidation
	case 1004:
		return ErrorClassInvariant
	case 1005:
		return ErrorClassDependency
	}

	switch e {
	case ErrForbidden:
		return ErrorClassAccess
	case ErrPaused, ErrReentrantCall:
		return ErrorClassGuard
	}

	return ErrorClassUnknown
}

// ErrorClass error class
type ErrorClass int

const (
	ErrorClassUnknown ErrorClass = iota
	ErrorClassValidation
	ErrorClassSolvency
	ErrorClassLiquidation
	ErrorClassInvariant
	ErrorClassDependency
	ErrorClassAccess
	ErrorClassGuard
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassValidation:
		return "validation"
	case ErrorClassSolvency:
		return "solvency"
	case ErrorClassLiquidation:
		return "liquidation"
	case ErrorClassInvariant:
		return "invariant"
	case ErrorClassDependency:
		return "dependency"
	case ErrorClassAccess:
		return "access"
	case ErrorClassGuard:
		return "guard"
	default:
		return "unknown"
	}
}

// CodeOf returns the first ErrorCode in err's chain, ErrUnknown if none
func CodeOf(err error) ErrorCode {
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return ErrUnknown
}

// ClassOf returns the class of err
func ClassOf(err error) ErrorClass {
	if err == nil {
		return ErrorClassUnknown
	}

	return CodeOf(err).Class()
}
