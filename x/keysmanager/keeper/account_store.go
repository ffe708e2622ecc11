package keeper

import (
	"context"
	"fmt"
	"strconv"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

var _ types.AccountStore = accountHandle{}

// accountHandle is the KV-store backed key set and thresholds of one account.
// State is read fresh on every call.
type accountHandle struct {
	k     Keeper
	owner types.AccountHash
}

// AccountStore returns the store handle for owner's key set and thresholds.
func (k Keeper) AccountStore(owner types.AccountHash) types.AccountStore {
	return accountHandle{k: k, owner: owner}
}

func (h accountHandle) AddAssociatedKey(ctx context.Context, auth types.Authorization, account types.AccountHash, weight types.Weight) error {
	if weight == 0 {
		panic("keysmanager: associated key weight must be positive")
	}
	state, err := h.k.loadAccount(ctx, h.owner)
	if err != nil {
		return err
	}
	if authorizationWeight(state, auth) < uint64(state.ActionThresholds.KeyManagement) {
		return types.AddKeyFailurePermissionDenied
	}
	params, err := h.k.GetParams(ctx)
	if err != nil {
		return err
	}
	if uint64(len(state.AssociatedKeys)) >= uint64(params.MaxAssociatedKeys) {
		return types.AddKeyFailureMaxKeysLimit
	}
	if state.Weight(account) != 0 {
		return types.AddKeyFailureDuplicateKey
	}

	if err := h.setWeight(ctx, account, weight); err != nil {
		return err
	}
	h.emit(ctx, types.EventTypeKeyAdded, account, weight)
	return nil
}

func (h accountHandle) UpdateAssociatedKey(ctx context.Context, auth types.Authorization, account types.AccountHash, weight types.Weight) error {
	if weight == 0 {
		panic("keysmanager: associated key weight must be positive")
	}
	state, err := h.k.loadAccount(ctx, h.owner)
	if err != nil {
		return err
	}
	if authorizationWeight(state, auth) < uint64(state.ActionThresholds.KeyManagement) {
		return types.UpdateKeyFailurePermissionDenied
	}
	current := state.Weight(account)
	if current == 0 {
		return types.UpdateKeyFailureMissingKey
	}
	total := state.TotalWeight() - uint64(current) + uint64(weight)
	if !reachable(state.ActionThresholds, total) {
		return types.UpdateKeyFailureThresholdViolation
	}

	if err := h.setWeight(ctx, account, weight); err != nil {
		return err
	}
	h.emit(ctx, types.EventTypeKeyUpdated, account, weight)
	return nil
}

func (h accountHandle) RemoveAssociatedKey(ctx context.Context, auth types.Authorization, account types.AccountHash) error {
	state, err := h.k.loadAccount(ctx, h.owner)
	if err != nil {
		return err
	}
	if authorizationWeight(state, auth) < uint64(state.ActionThresholds.KeyManagement) {
		return types.RemoveKeyFailurePermissionDenied
	}
	current := state.Weight(account)
	if current == 0 {
		return types.RemoveKeyFailureMissingKey
	}
	if !reachable(state.ActionThresholds, state.TotalWeight()-uint64(current)) {
		return types.RemoveKeyFailureThresholdViolation
	}

	if err := h.k.AssociatedKeys.Remove(ctx, collections.Join(h.owner.Bytes(), account.Bytes())); err != nil {
		return fmt.Errorf("remove associated key %s: %w", account, err)
	}
	h.emit(ctx, types.EventTypeKeyRemoved, account, 0)
	return nil
}

func (h accountHandle) SetActionThreshold(ctx context.Context, auth types.Authorization, kind types.ActionType, value types.Weight) error {
	if value == 0 {
		panic("keysmanager: action threshold must be positive")
	}
	state, err := h.k.loadAccount(ctx, h.owner)
	if err != nil {
		return err
	}
	if authorizationWeight(state, auth) < uint64(state.ActionThresholds.KeyManagement) {
		return types.SetThresholdFailurePermissionDenied
	}
	switch kind {
	case types.ActionTypeKeyManagement:
		if value < state.ActionThresholds.Deployment {
			return types.SetThresholdFailureKeyManagementThreshold
		}
	case types.ActionTypeDeployment:
		if value > state.ActionThresholds.KeyManagement {
			return types.SetThresholdFailureDeploymentThreshold
		}
	default:
		return fmt.Errorf("unknown action type %d", kind)
	}
	if uint64(value) > state.TotalWeight() {
		return types.SetThresholdFailureInsufficientTotalWeight
	}

	key := collections.Join(h.owner.Bytes(), uint64(kind))
	if err := h.k.ActionThresholds.Set(ctx, key, uint64(value)); err != nil {
		return fmt.Errorf("set %s threshold: %w", kind, err)
	}
	emitEventIfPossible(ctx, sdk.NewEvent(
		types.EventTypeThresholdSet,
		sdk.NewAttribute(types.AttributeKeyOwner, h.owner.String()),
		sdk.NewAttribute(types.AttributeKeyActionType, kind.String()),
		sdk.NewAttribute(types.AttributeKeyWeight, strconv.FormatUint(uint64(value), 10)),
	))
	return nil
}

func (h accountHandle) setWeight(ctx context.Context, account types.AccountHash, weight types.Weight) error {
	key := collections.Join(h.owner.Bytes(), account.Bytes())
	if err := h.k.AssociatedKeys.Set(ctx, key, uint64(weight)); err != nil {
		return fmt.Errorf("set associated key %s: %w", account, err)
	}
	return nil
}

func (h accountHandle) emit(ctx context.Context, eventType string, account types.AccountHash, weight types.Weight) {
	emitEventIfPossible(ctx, sdk.NewEvent(
		eventType,
		sdk.NewAttribute(types.AttributeKeyOwner, h.owner.String()),
		sdk.NewAttribute(types.AttributeKeyAccount, account.String()),
		sdk.NewAttribute(types.AttributeKeyWeight, strconv.FormatUint(uint64(weight), 10)),
	))
}

// reachable reports whether total key weight still meets both thresholds.
func reachable(thresholds types.ActionThresholds, total uint64) bool {
	return total >= uint64(thresholds.Deployment) && total >= uint64(thresholds.KeyManagement)
}
