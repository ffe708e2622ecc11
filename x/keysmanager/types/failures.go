package types

import "fmt"

// The host store reports each rejected mutation as one value of a closed
// failure type. Callers match them exhaustively.

// AddKeyFailure is returned by AccountStore.AddAssociatedKey.
type AddKeyFailure uint8

const (
	AddKeyFailureMaxKeysLimit AddKeyFailure = iota + 1
	AddKeyFailureDuplicateKey
	AddKeyFailurePermissionDenied
)

func (f AddKeyFailure) Error() string {
	switch f {
	case AddKeyFailureMaxKeysLimit:
		return "add key: maximum number of associated keys reached"
	case AddKeyFailureDuplicateKey:
		return "add key: key is already associated"
	case AddKeyFailurePermissionDenied:
		return "add key: permission denied"
	}
	return fmt.Sprintf("add key: failure %d", uint8(f))
}

// UpdateKeyFailure is returned by AccountStore.UpdateAssociatedKey.
type UpdateKeyFailure uint8

const (
	UpdateKeyFailureMissingKey UpdateKeyFailure = iota + 1
	UpdateKeyFailurePermissionDenied
	UpdateKeyFailureThresholdViolation
)

func (f UpdateKeyFailure) Error() string {
	switch f {
	case UpdateKeyFailureMissingKey:
		return "update key: key is not associated"
	case UpdateKeyFailurePermissionDenied:
		return "update key: permission denied"
	case UpdateKeyFailureThresholdViolation:
		return "update key: new weight would leave a threshold unreachable"
	}
	return fmt.Sprintf("update key: failure %d", uint8(f))
}

// RemoveKeyFailure is returned by AccountStore.RemoveAssociatedKey.
type RemoveKeyFailure uint8

const (
	RemoveKeyFailureMissingKey RemoveKeyFailure = iota + 1
	RemoveKeyFailurePermissionDenied
	RemoveKeyFailureThresholdViolation
)

func (f RemoveKeyFailure) Error() string {
	switch f {
	case RemoveKeyFailureMissingKey:
		return "remove key: key is not associated"
	case RemoveKeyFailurePermissionDenied:
		return "remove key: permission denied"
	case RemoveKeyFailureThresholdViolation:
		return "remove key: removal would leave a threshold unreachable"
	}
	return fmt.Sprintf("remove key: failure %d", uint8(f))
}

// SetThresholdFailure is returned by AccountStore.SetActionThreshold.
type SetThresholdFailure uint8

const (
	SetThresholdFailureKeyManagementThreshold SetThresholdFailure = iota + 1
	SetThresholdFailureDeploymentThreshold
	SetThresholdFailurePermissionDenied
	SetThresholdFailureInsufficientTotalWeight
)

func (f SetThresholdFailure) Error() string {
	switch f {
	case SetThresholdFailureKeyManagementThreshold:
		return "set threshold: key management threshold below deployment threshold"
	case SetThresholdFailureDeploymentThreshold:
		return "set threshold: deployment threshold above key management threshold"
	case SetThresholdFailurePermissionDenied:
		return "set threshold: permission denied"
	case SetThresholdFailureInsufficientTotalWeight:
		return "set threshold: threshold exceeds total key weight"
	}
	return fmt.Sprintf("set threshold: failure %d", uint8(f))
}
