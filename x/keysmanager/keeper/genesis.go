package keeper

import (
	"context"
	"fmt"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// InitGenesis loads params and accounts from a validated genesis state.
func (k Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if gs == nil {
		gs = types.DefaultGenesisState()
	}
	if err := gs.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	for _, account := range gs.Accounts {
		if err := k.storeAccount(ctx, account); err != nil {
			return fmt.Errorf("import account %s: %w", account.Owner, err)
		}
	}
	k.logger.Info("Genesis imported", "accounts", len(gs.Accounts))
	return nil
}

// ExportGenesis returns the current module state.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	gs := &types.GenesisState{Params: params, Accounts: []types.Account{}}
	err = k.IterateAccounts(ctx, func(account types.Account) bool {
		gs.Accounts = append(gs.Accounts, account)
		return false
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}
