package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// authorizationWeight sums the weights of the signers that are associated
// keys of account. Unknown signers contribute nothing.
func authorizationWeight(account types.Account, auth types.Authorization) uint64 {
	var total uint64
	for _, signer := range auth.Keys() {
		total += uint64(account.Weight(signer))
	}
	return total
}

// AuthorizeDeployment checks that the signers may act on behalf of owner at
// all: the account exists, every signer is one of its associated keys, and
// together they reach the deployment threshold.
func (k Keeper) AuthorizeDeployment(ctx context.Context, owner types.AccountHash, auth types.Authorization) error {
	account, err := k.loadAccount(ctx, owner)
	if errors.Is(err, collections.ErrNotFound) {
		return errorsmod.Wrapf(types.ErrPermissionDenied, "account %s does not exist", owner)
	}
	if err != nil {
		return err
	}
	if auth.Empty() {
		return errorsmod.Wrap(types.ErrPermissionDenied, "call has no signers")
	}
	for _, signer := range auth.Keys() {
		if account.Weight(signer) == 0 {
			return errorsmod.Wrapf(types.ErrPermissionDenied, "signer %s is not an associated key of %s", signer, owner)
		}
	}
	weight := authorizationWeight(account, auth)
	if weight < uint64(account.ActionThresholds.Deployment) {
		return errorsmod.Wrapf(types.ErrPermissionDenied,
			"signer weight %d below deployment threshold %d", weight, account.ActionThresholds.Deployment)
	}
	return nil
}
