package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

const (
	EntryPointSetKeyWeight              = "set_key_weight"
	EntryPointSetDeploymentThreshold    = "set_deployment_threshold"
	EntryPointSetKeyManagementThreshold = "set_key_management_threshold"
	EntryPointSetAll                    = "set_all"
)

const (
	ArgAccount                = "account"
	ArgWeight                 = "weight"
	ArgAccounts               = "accounts"
	ArgWeights                = "weights"
	ArgDeploymentThreshold    = "deployment_threshold"
	ArgKeyManagementThreshold = "key_management_threshold"
)

// ArgType is the expected type of a named argument.
type ArgType uint8

const (
	ArgTypeU8 ArgType = iota
	ArgTypeAccountHash
	ArgTypeU8List
	ArgTypeAccountHashList
)

func (t ArgType) String() string {
	switch t {
	case ArgTypeU8:
		return "u8"
	case ArgTypeAccountHash:
		return "account_hash"
	case ArgTypeU8List:
		return "list<u8>"
	case ArgTypeAccountHashList:
		return "list<account_hash>"
	}
	return fmt.Sprintf("arg_type(%d)", uint8(t))
}

// Parameter is one positional, named argument of an entry point. Its
// position determines the MissingArgument/InvalidArgument code.
type Parameter struct {
	Name string  `json:"name"`
	Type ArgType `json:"type"`
}

// EntryPoint describes a callable keys manager operation.
type EntryPoint struct {
	Name   string      `json:"name"`
	Params []Parameter `json:"params"`
}

var entryPoints = []EntryPoint{
	{
		Name: EntryPointSetKeyWeight,
		Params: []Parameter{
			{Name: ArgAccount, Type: ArgTypeAccountHash},
			{Name: ArgWeight, Type: ArgTypeU8},
		},
	},
	{
		Name:   EntryPointSetDeploymentThreshold,
		Params: []Parameter{{Name: ArgWeight, Type: ArgTypeU8}},
	},
	{
		Name:   EntryPointSetKeyManagementThreshold,
		Params: []Parameter{{Name: ArgWeight, Type: ArgTypeU8}},
	},
	{
		Name: EntryPointSetAll,
		Params: []Parameter{
			{Name: ArgDeploymentThreshold, Type: ArgTypeU8},
			{Name: ArgKeyManagementThreshold, Type: ArgTypeU8},
			{Name: ArgAccounts, Type: ArgTypeAccountHashList},
			{Name: ArgWeights, Type: ArgTypeU8List},
		},
	},
}

// EntryPoints returns the callable operations in registration order.
func EntryPoints() []EntryPoint {
	out := make([]EntryPoint, len(entryPoints))
	copy(out, entryPoints)
	return out
}

func LookupEntryPoint(name string) (EntryPoint, bool) {
	for _, ep := range entryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// IndexOf returns the position of the named parameter, or -1.
func (ep EntryPoint) IndexOf(name string) int {
	for i, param := range ep.Params {
		if param.Name == name {
			return i
		}
	}
	return -1
}

// RuntimeArgs are the JSON-encoded named arguments of a call.
type RuntimeArgs map[string]json.RawMessage

// Insert encodes value under name.
func (a RuntimeArgs) Insert(name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode argument %q: %w", name, err)
	}
	a[name] = raw
	return nil
}

// DecodeMsg decodes the arguments of the named entry point. No state is
// touched; malformed input is reported with the positional argument codes.
func DecodeMsg(entryPoint string, args RuntimeArgs) (Msg, error) {
	ep, ok := LookupEntryPoint(entryPoint)
	if !ok {
		return nil, errorsmod.Wrapf(ErrUnknownAPICommand, "entry point %q", entryPoint)
	}

	var (
		msg Msg
		err error
	)
	switch ep.Name {
	case EntryPointSetKeyWeight:
		msg, err = decodeSetKeyWeight(ep, args)
	case EntryPointSetDeploymentThreshold:
		msg, err = decodeSetThreshold(ep, args, ActionTypeDeployment)
	case EntryPointSetKeyManagementThreshold:
		msg, err = decodeSetThreshold(ep, args, ActionTypeKeyManagement)
	case EntryPointSetAll:
		msg, err = decodeSetAll(ep, args)
	default:
		return nil, errorsmod.Wrapf(ErrUnknownAPICommand, "entry point %q has no decoder", entryPoint)
	}
	if err != nil {
		return nil, err
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	return msg, nil
}

func decodeSetKeyWeight(ep EntryPoint, args RuntimeArgs) (Msg, error) {
	account, err := decodeArg[AccountHash](ep, args, ArgAccount)
	if err != nil {
		return nil, err
	}
	weight, err := decodeArg[Weight](ep, args, ArgWeight)
	if err != nil {
		return nil, err
	}
	return &MsgSetKeyWeight{Account: account, Weight: weight}, nil
}

func decodeSetThreshold(ep EntryPoint, args RuntimeArgs, kind ActionType) (Msg, error) {
	weight, err := decodeArg[Weight](ep, args, ArgWeight)
	if err != nil {
		return nil, err
	}
	return &MsgSetThreshold{Kind: kind, Weight: weight}, nil
}

func decodeSetAll(ep EntryPoint, args RuntimeArgs) (Msg, error) {
	deployment, err := decodeArg[Weight](ep, args, ArgDeploymentThreshold)
	if err != nil {
		return nil, err
	}
	keyManagement, err := decodeArg[Weight](ep, args, ArgKeyManagementThreshold)
	if err != nil {
		return nil, err
	}
	accounts, err := decodeArg[[]AccountHash](ep, args, ArgAccounts)
	if err != nil {
		return nil, err
	}
	weights, err := decodeArg[[]Weight](ep, args, ArgWeights)
	if err != nil {
		return nil, err
	}
	return &MsgSetAll{
		DeploymentThreshold:    deployment,
		KeyManagementThreshold: keyManagement,
		Accounts:               accounts,
		Weights:                weights,
	}, nil
}

// decodeArg decodes a single named argument. A u8 list also accepts the
// base64 string form produced by encoding/json for byte slices.
func decodeArg[T any](ep EntryPoint, args RuntimeArgs, name string) (T, error) {
	var out T
	index := ep.IndexOf(name)
	raw, ok := args[name]
	if !ok {
		return out, errorsmod.Wrapf(MissingArgument(index), "%s: argument %q", ep.Name, name)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, errorsmod.Wrapf(InvalidArgument(index), "%s: argument %q is null", ep.Name, name)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errorsmod.Wrapf(InvalidArgument(index), "%s: argument %q: %s", ep.Name, name, err)
	}
	return out, nil
}
