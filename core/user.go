package core

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// IAuthorizer access control of admin operations
type IAuthorizer interface {
	IsAdmin(userID string) bool
}

// ValidateUserID user ids are non empty printable ascii without spaces
func ValidateUserID(userID string) error {
	if userID == "" || len(userID) > 64 {
		return ErrInvalidUser
	}

	if !govalidator.IsPrintableASCII(userID) || strings.ContainsAny(userID, " \t") {
		return ErrInvalidUser
	}

	return nil
}

// ValidateAssetID asset ids follow the user id rules with a shorter limit
func ValidateAssetID(assetID string) error {
	if assetID == "" || len(assetID) > 36 {
		return ErrAssetNotSupported
	}

	if !govalidator.IsPrintableASCII(assetID) || strings.ContainsAny(assetID, " \t") {
		return ErrAssetNotSupported
	}

	return nil
}
