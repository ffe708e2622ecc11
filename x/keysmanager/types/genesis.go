package types

import (
	"fmt"
)

// GenesisState is the module state imported at chain start.
type GenesisState struct {
	Params   Params    `json:"params"`
	Accounts []Account `json:"accounts"`
}

func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params:   DefaultParams(),
		Accounts: []Account{},
	}
}

// Validate checks params and that every account satisfies the key-set
// invariants under those params.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	owners := make(map[AccountHash]struct{}, len(gs.Accounts))
	for i, account := range gs.Accounts {
		if _, exists := owners[account.Owner]; exists {
			return fmt.Errorf("duplicate account %s at index %d", account.Owner, i)
		}
		owners[account.Owner] = struct{}{}
		if err := account.Validate(gs.Params.MaxAssociatedKeys); err != nil {
			return fmt.Errorf("invalid account at index %d: %w", i, err)
		}
	}
	return nil
}
