package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// CreateAccount registers owner with itself as the only key at weight 1 and
// both thresholds at 1.
func (k Keeper) CreateAccount(ctx context.Context, owner types.AccountHash) error {
	if owner.Empty() {
		return fmt.Errorf("account owner cannot be empty")
	}
	exists, err := k.HasAccount(ctx, owner)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("account %s already exists", owner)
	}
	if err := k.storeAccount(ctx, types.NewAccount(owner)); err != nil {
		return fmt.Errorf("create account %s: %w", owner, err)
	}

	emitEventIfPossible(ctx, sdk.NewEvent(
		types.EventTypeAccountCreate,
		sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
	))
	k.logger.Info("Account created", "owner", owner.String())
	return nil
}

func (k Keeper) HasAccount(ctx context.Context, owner types.AccountHash) (bool, error) {
	return k.Accounts.Has(ctx, owner.Bytes())
}

// GetAccount returns owner's associated keys, sorted by account hash, and
// thresholds.
func (k Keeper) GetAccount(ctx context.Context, owner types.AccountHash) (types.Account, error) {
	account, err := k.loadAccount(ctx, owner)
	if err != nil {
		return types.Account{}, err
	}
	types.SortAssociatedKeys(account.AssociatedKeys)
	return account, nil
}

func (k Keeper) GetAssociatedKeys(ctx context.Context, owner types.AccountHash) ([]types.AssociatedKey, error) {
	account, err := k.GetAccount(ctx, owner)
	if err != nil {
		return nil, err
	}
	return account.AssociatedKeys, nil
}

func (k Keeper) GetActionThresholds(ctx context.Context, owner types.AccountHash) (types.ActionThresholds, error) {
	account, err := k.loadAccount(ctx, owner)
	if err != nil {
		return types.ActionThresholds{}, err
	}
	return account.ActionThresholds, nil
}

// TotalWeight sums the weights of owner's associated keys.
func (k Keeper) TotalWeight(ctx context.Context, owner types.AccountHash) (uint64, error) {
	account, err := k.loadAccount(ctx, owner)
	if err != nil {
		return 0, err
	}
	return account.TotalWeight(), nil
}

// IterateAccounts calls cb for every account in owner byte order until cb
// returns true.
func (k Keeper) IterateAccounts(ctx context.Context, cb func(account types.Account) (stop bool)) error {
	var owners []types.AccountHash
	err := k.Accounts.Walk(ctx, nil, func(key []byte) (bool, error) {
		owner, err := types.AccountHashFromBytes(key)
		if err != nil {
			return true, err
		}
		owners = append(owners, owner)
		return false, nil
	})
	if err != nil {
		return fmt.Errorf("walk accounts: %w", err)
	}
	for _, owner := range owners {
		account, err := k.GetAccount(ctx, owner)
		if err != nil {
			return err
		}
		if cb(account) {
			return nil
		}
	}
	return nil
}
