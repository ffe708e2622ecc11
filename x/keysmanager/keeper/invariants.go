package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// RegisterInvariants registers all module invariants with the invariant registry.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "threshold-ordering", ThresholdOrderingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "no-lockout", NoLockoutInvariant(k))
	ir.RegisterRoute(types.ModuleName, "max-keys", MaxKeysInvariant(k))
	ir.RegisterRoute(types.ModuleName, "positive-weights", PositiveWeightsInvariant(k))
}

// AllInvariants runs all invariants of the keysmanager module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		invariants := []sdk.Invariant{
			ThresholdOrderingInvariant(k),
			NoLockoutInvariant(k),
			MaxKeysInvariant(k),
			PositiveWeightsInvariant(k),
		}

		for _, inv := range invariants {
			if msg, broken := inv(ctx); broken {
				return msg, broken
			}
		}
		return "", false
	}
}

// ThresholdOrderingInvariant checks that every account has both thresholds
// set, positive, and with deployment not above key management.
func ThresholdOrderingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		walkAccounts(ctx, k, func(owner types.AccountHash) {
			var values [2]uint64
			for _, kind := range types.ActionTypes() {
				value, err := k.ActionThresholds.Get(ctx, collections.Join(owner.Bytes(), uint64(kind)))
				if err != nil {
					msg += fmt.Sprintf("INVARIANT BROKEN: account %s has no %s threshold\n", owner, kind)
					broken = true
					return
				}
				if value == 0 {
					msg += fmt.Sprintf("INVARIANT BROKEN: account %s has zero %s threshold\n", owner, kind)
					broken = true
				}
				values[kind] = value
			}
			if values[types.ActionTypeDeployment] > values[types.ActionTypeKeyManagement] {
				msg += fmt.Sprintf("INVARIANT BROKEN: account %s deployment threshold %d exceeds key management threshold %d\n",
					owner, values[types.ActionTypeDeployment], values[types.ActionTypeKeyManagement])
				broken = true
			}
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "threshold-ordering", msg), true
		}
		return "", false
	}
}

// NoLockoutInvariant checks that the associated keys of every account can
// reach both thresholds.
func NoLockoutInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		walkAccounts(ctx, k, func(owner types.AccountHash) {
			account, err := k.loadAccount(ctx, owner)
			if err != nil {
				msg += fmt.Sprintf("INVARIANT BROKEN: account %s unreadable: %v\n", owner, err)
				broken = true
				return
			}
			total := account.TotalWeight()
			for _, kind := range types.ActionTypes() {
				if threshold := account.ActionThresholds.Get(kind); uint64(threshold) > total {
					msg += fmt.Sprintf("INVARIANT BROKEN: account %s %s threshold %d exceeds total weight %d\n",
						owner, kind, threshold, total)
					broken = true
				}
			}
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "no-lockout", msg), true
		}
		return "", false
	}
}

// MaxKeysInvariant checks that no account holds more keys than the params allow.
func MaxKeysInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		params, err := k.GetParams(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "max-keys",
				fmt.Sprintf("INVARIANT BROKEN: params unreadable: %v\n", err)), true
		}

		counts := make(map[types.AccountHash]uint64)
		_ = k.AssociatedKeys.Walk(ctx, nil, func(key collections.Pair[[]byte, []byte], _ uint64) (bool, error) {
			owner, err := types.AccountHashFromBytes(key.K1())
			if err == nil {
				counts[owner]++
			}
			return false, nil
		})

		var msg string
		broken := false
		walkAccounts(ctx, k, func(owner types.AccountHash) {
			if counts[owner] > uint64(params.MaxAssociatedKeys) {
				msg += fmt.Sprintf("INVARIANT BROKEN: account %s has %d associated keys, max is %d\n",
					owner, counts[owner], params.MaxAssociatedKeys)
				broken = true
			}
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "max-keys", msg), true
		}
		return "", false
	}
}

// PositiveWeightsInvariant checks that every stored key weight is in [1, 255]
// and belongs to a known account.
func PositiveWeightsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		_ = k.AssociatedKeys.Walk(ctx, nil, func(key collections.Pair[[]byte, []byte], weight uint64) (bool, error) {
			if weight == 0 || weight > 255 {
				msg += fmt.Sprintf("INVARIANT BROKEN: key %X of account %X has weight %d\n", key.K2(), key.K1(), weight)
				broken = true
			}
			exists, err := k.Accounts.Has(ctx, key.K1())
			if err != nil || !exists {
				msg += fmt.Sprintf("INVARIANT BROKEN: key %X belongs to unknown account %X\n", key.K2(), key.K1())
				broken = true
			}
			return false, nil
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "positive-weights", msg), true
		}
		return "", false
	}
}

func walkAccounts(ctx sdk.Context, k Keeper, fn func(owner types.AccountHash)) {
	_ = k.Accounts.Walk(ctx, nil, func(key []byte) (bool, error) {
		owner, err := types.AccountHashFromBytes(key)
		if err != nil {
			return false, nil
		}
		fn(owner)
		return false, nil
	})
}
