package types

import (
	"fmt"

	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	"github.com/spf13/cast"
)

const (
	// DefaultMaxAssociatedKeys bounds the key set of every account.
	DefaultMaxAssociatedKeys uint32 = 100

	// FlagMaxAssociatedKeys is the app option overriding the default bound.
	FlagMaxAssociatedKeys = "keysmanager.max-associated-keys"
)

// Params are the module parameters.
type Params struct {
	MaxAssociatedKeys uint32 `json:"max_associated_keys"`
}

func DefaultParams() Params {
	return Params{MaxAssociatedKeys: DefaultMaxAssociatedKeys}
}

func (p Params) Validate() error {
	if p.MaxAssociatedKeys == 0 {
		return fmt.Errorf("max associated keys must be positive")
	}
	return nil
}

// ParamsFromAppOptions overlays app options on the default params.
func ParamsFromAppOptions(appOpts servertypes.AppOptions) (Params, error) {
	params := DefaultParams()
	if appOpts == nil {
		return params, nil
	}
	if raw := appOpts.Get(FlagMaxAssociatedKeys); raw != nil {
		maxKeys, err := cast.ToUint32E(raw)
		if err != nil {
			return params, fmt.Errorf("invalid %s: %w", FlagMaxAssociatedKeys, err)
		}
		params.MaxAssociatedKeys = maxKeys
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}
