package keeper

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// SetAll replaces key weights and both thresholds. Keys are applied in the
// given order, then the key management threshold, then the deployment
// threshold. Nothing is written unless every step succeeds: inside an
// sdk.Context the batch runs in a cache context, otherwise the store must be a
// types.JournaledStore and is rolled back on failure.
func (k Keeper) SetAll(
	ctx context.Context,
	store types.AccountStore,
	auth types.Authorization,
	deploymentThreshold types.Weight,
	keyManagementThreshold types.Weight,
	accounts []types.AccountHash,
	weights []types.Weight,
) error {
	msg := types.MsgSetAll{
		DeploymentThreshold:    deploymentThreshold,
		KeyManagementThreshold: keyManagementThreshold,
		Accounts:               accounts,
		Weights:                weights,
	}
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	runCtx := ctx
	commit, rollback := func() {}, func() {}
	if sdkCtx, ok := unwrapSDKContext(ctx); ok {
		runCtx, commit = sdkCtx.CacheContext()
	} else if journaled, ok := store.(types.JournaledStore); ok {
		commit, rollback = journaled.Checkpoint(ctx)
	} else {
		return fmt.Errorf("set_all: %T cannot roll back partial writes outside an sdk context", store)
	}

	if err := k.applyAll(runCtx, store, auth, msg); err != nil {
		rollback()
		return err
	}
	commit()
	return nil
}

func (k Keeper) applyAll(ctx context.Context, store types.AccountStore, auth types.Authorization, msg types.MsgSetAll) error {
	for i, account := range msg.Accounts {
		if err := k.SetKeyWeight(ctx, store, auth, account, msg.Weights[i]); err != nil {
			return errorsmod.Wrapf(err, "set_all: key %d", i)
		}
	}
	if err := k.SetThreshold(ctx, store, auth, types.ActionTypeKeyManagement, msg.KeyManagementThreshold); err != nil {
		return errorsmod.Wrap(err, "set_all")
	}
	if err := k.SetThreshold(ctx, store, auth, types.ActionTypeDeployment, msg.DeploymentThreshold); err != nil {
		return errorsmod.Wrap(err, "set_all")
	}
	return nil
}
