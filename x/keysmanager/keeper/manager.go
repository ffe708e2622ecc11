package keeper

import (
	"context"
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// SetKeyWeight adds, updates or removes one associated key. Weight 0 removes
// the key and is a no-op when the key is absent. A positive weight updates
// an existing key and otherwise adds it.
func (k Keeper) SetKeyWeight(
	ctx context.Context,
	store types.AccountStore,
	auth types.Authorization,
	account types.AccountHash,
	weight types.Weight,
) error {
	if weight == 0 {
		return k.removeKeyIfExists(ctx, store, auth, account)
	}
	return k.addOrUpdateKey(ctx, store, auth, account, weight)
}

func (k Keeper) removeKeyIfExists(ctx context.Context, store types.AccountStore, auth types.Authorization, account types.AccountHash) error {
	err := store.RemoveAssociatedKey(ctx, auth, account)
	if err == nil {
		return nil
	}
	var failure types.RemoveKeyFailure
	if !errors.As(err, &failure) {
		return fmt.Errorf("remove associated key %s: %w", account, err)
	}
	if failure == types.RemoveKeyFailureMissingKey {
		return nil
	}
	return removeKeyError(failure, account)
}

func (k Keeper) addOrUpdateKey(
	ctx context.Context,
	store types.AccountStore,
	auth types.Authorization,
	account types.AccountHash,
	weight types.Weight,
) error {
	err := store.UpdateAssociatedKey(ctx, auth, account, weight)
	if err == nil {
		return nil
	}
	var updateFailure types.UpdateKeyFailure
	if !errors.As(err, &updateFailure) {
		return fmt.Errorf("update associated key %s: %w", account, err)
	}
	if updateFailure != types.UpdateKeyFailureMissingKey {
		return updateKeyError(updateFailure, account)
	}

	err = store.AddAssociatedKey(ctx, auth, account, weight)
	if err == nil {
		return nil
	}
	var addFailure types.AddKeyFailure
	if !errors.As(err, &addFailure) {
		return fmt.Errorf("add associated key %s: %w", account, err)
	}
	if addFailure == types.AddKeyFailureDuplicateKey {
		k.logger.Error("Associated key reported missing on update but present on add",
			"account", account.String(),
			"weight", weight,
		)
	}
	return addKeyError(addFailure, account)
}

// SetThreshold sets the threshold of one action type.
func (k Keeper) SetThreshold(
	ctx context.Context,
	store types.AccountStore,
	auth types.Authorization,
	kind types.ActionType,
	value types.Weight,
) error {
	if value == 0 {
		return errorsmod.Wrapf(types.InvalidArgument(0), "%s threshold must be at least 1", kind)
	}
	err := store.SetActionThreshold(ctx, auth, kind, value)
	if err == nil {
		return nil
	}
	var failure types.SetThresholdFailure
	if !errors.As(err, &failure) {
		return fmt.Errorf("set %s threshold: %w", kind, err)
	}
	return setThresholdError(failure, kind, value)
}

func addKeyError(f types.AddKeyFailure, account types.AccountHash) error {
	switch f {
	case types.AddKeyFailureMaxKeysLimit:
		return errorsmod.Wrapf(types.ErrMaxKeysLimit, "add %s", account)
	case types.AddKeyFailureDuplicateKey:
		return errorsmod.Wrapf(types.ErrDuplicateKey, "add %s", account)
	case types.AddKeyFailurePermissionDenied:
		return errorsmod.Wrapf(types.ErrPermissionDenied, "add %s", account)
	}
	return fmt.Errorf("add %s: unrecognized %w", account, f)
}

func updateKeyError(f types.UpdateKeyFailure, account types.AccountHash) error {
	switch f {
	case types.UpdateKeyFailureMissingKey:
		return fmt.Errorf("update %s: unexpected %w", account, f)
	case types.UpdateKeyFailurePermissionDenied:
		return errorsmod.Wrapf(types.ErrPermissionDenied, "update %s", account)
	case types.UpdateKeyFailureThresholdViolation:
		return errorsmod.Wrapf(types.ErrThresholdViolation, "update %s", account)
	}
	return fmt.Errorf("update %s: unrecognized %w", account, f)
}

func removeKeyError(f types.RemoveKeyFailure, account types.AccountHash) error {
	switch f {
	case types.RemoveKeyFailureMissingKey:
		return fmt.Errorf("remove %s: unexpected %w", account, f)
	case types.RemoveKeyFailurePermissionDenied:
		return errorsmod.Wrapf(types.ErrPermissionDenied, "remove %s", account)
	case types.RemoveKeyFailureThresholdViolation:
		return errorsmod.Wrapf(types.ErrThresholdViolation, "remove %s", account)
	}
	return fmt.Errorf("remove %s: unrecognized %w", account, f)
}

func setThresholdError(f types.SetThresholdFailure, kind types.ActionType, value types.Weight) error {
	switch f {
	case types.SetThresholdFailureKeyManagementThreshold:
		return errorsmod.Wrapf(types.ErrKeyManagementThreshold, "set %s threshold to %d", kind, value)
	case types.SetThresholdFailureDeploymentThreshold:
		return errorsmod.Wrapf(types.ErrDeploymentThreshold, "set %s threshold to %d", kind, value)
	case types.SetThresholdFailurePermissionDenied:
		return errorsmod.Wrapf(types.ErrPermissionDenied, "set %s threshold to %d", kind, value)
	case types.SetThresholdFailureInsufficientTotalWeight:
		return errorsmod.Wrapf(types.ErrInsufficientTotalWeight, "set %s threshold to %d", kind, value)
	}
	return fmt.Errorf("set %s threshold: unrecognized %w", kind, f)
}
