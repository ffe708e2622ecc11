package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Error codes are part of the caller-visible API and must never be renumbered.
var (
	ErrUnknownAPICommand            = errorsmod.Register(ModuleName, 1, "unknown api command")
	ErrPermissionDenied             = errorsmod.Register(ModuleName, 2, "permission denied")
	ErrThresholdViolation           = errorsmod.Register(ModuleName, 3, "threshold violation")
	ErrMaxKeysLimit                 = errorsmod.Register(ModuleName, 4, "max keys limit")
	ErrDuplicateKey                 = errorsmod.Register(ModuleName, 5, "duplicate key")
	ErrKeyManagementThreshold       = errorsmod.Register(ModuleName, 6, "key management threshold")
	ErrDeploymentThreshold          = errorsmod.Register(ModuleName, 7, "deployment threshold")
	ErrInsufficientTotalWeight      = errorsmod.Register(ModuleName, 8, "insufficient total weight")
	ErrMissingArgument0             = errorsmod.Register(ModuleName, 20, "missing argument 0")
	ErrMissingArgument1             = errorsmod.Register(ModuleName, 21, "missing argument 1")
	ErrMissingArgument2             = errorsmod.Register(ModuleName, 22, "missing argument 2")
	ErrInvalidArgument0             = errorsmod.Register(ModuleName, 23, "invalid argument 0")
	ErrInvalidArgument1             = errorsmod.Register(ModuleName, 24, "invalid argument 1")
	ErrInvalidArgument2             = errorsmod.Register(ModuleName, 25, "invalid argument 2")
	ErrUnsupportedNumberOfArguments = errorsmod.Register(ModuleName, 30, "unsupported number of arguments")
)

// MissingArgument returns the error for an absent argument at position i.
func MissingArgument(i int) *errorsmod.Error {
	switch i {
	case 0:
		return ErrMissingArgument0
	case 1:
		return ErrMissingArgument1
	case 2:
		return ErrMissingArgument2
	default:
		return ErrUnsupportedNumberOfArguments
	}
}

// InvalidArgument returns the error for a malformed argument at position i.
func InvalidArgument(i int) *errorsmod.Error {
	switch i {
	case 0:
		return ErrInvalidArgument0
	case 1:
		return ErrInvalidArgument1
	case 2:
		return ErrInvalidArgument2
	default:
		return ErrUnsupportedNumberOfArguments
	}
}

// Code returns the numeric code of a keys manager error, looking through
// any wrapping. It reports false for nil and for errors outside the module.
func Code(err error) (uint32, bool) {
	var registered *errorsmod.Error
	if err == nil || !errors.As(err, &registered) {
		return 0, false
	}
	if registered.Codespace() != ModuleName {
		return 0, false
	}
	return registered.ABCICode(), true
}
