package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Msg is a decoded keys manager call.
type Msg interface {
	EntryPoint() string
	ValidateBasic() error
}

var (
	_ Msg = &MsgSetKeyWeight{}
	_ Msg = &MsgSetThreshold{}
	_ Msg = &MsgSetAll{}
)

// MsgSetKeyWeight adds, updates or (with weight 0) removes one key.
type MsgSetKeyWeight struct {
	Account AccountHash `json:"account"`
	Weight  Weight      `json:"weight"`
}

func (m *MsgSetKeyWeight) EntryPoint() string { return EntryPointSetKeyWeight }

// ValidateBasic accepts every weight: 0 is the removal request.
func (m *MsgSetKeyWeight) ValidateBasic() error { return nil }

// MsgSetThreshold sets one action threshold.
type MsgSetThreshold struct {
	Kind   ActionType `json:"kind"`
	Weight Weight     `json:"weight"`
}

func (m *MsgSetThreshold) EntryPoint() string {
	if m.Kind == ActionTypeKeyManagement {
		return EntryPointSetKeyManagementThreshold
	}
	return EntryPointSetDeploymentThreshold
}

func (m *MsgSetThreshold) ValidateBasic() error {
	if m.Weight == 0 {
		return errorsmod.Wrapf(InvalidArgument(0), "%s threshold must be at least 1", m.Kind)
	}
	return nil
}

// MsgSetAll replaces the key weights and both thresholds in one call.
type MsgSetAll struct {
	DeploymentThreshold    Weight        `json:"deployment_threshold"`
	KeyManagementThreshold Weight        `json:"key_management_threshold"`
	Accounts               []AccountHash `json:"accounts"`
	Weights                []Weight      `json:"weights"`
}

func (m *MsgSetAll) EntryPoint() string { return EntryPointSetAll }

func (m *MsgSetAll) ValidateBasic() error {
	if m.DeploymentThreshold == 0 {
		return errorsmod.Wrap(InvalidArgument(0), "deployment threshold must be at least 1")
	}
	if m.KeyManagementThreshold == 0 {
		return errorsmod.Wrap(InvalidArgument(1), "key management threshold must be at least 1")
	}
	if len(m.Accounts) != len(m.Weights) {
		return errorsmod.Wrapf(InvalidArgument(3), "got %d accounts but %d weights", len(m.Accounts), len(m.Weights))
	}
	return nil
}
