package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// Keeper manages account key sets and action thresholds.
type Keeper struct {
	storeService store.KVStoreService
	logger       log.Logger
	authority    string

	// State collections
	Schema           collections.Schema
	Accounts         collections.KeySet[[]byte]
	AssociatedKeys   collections.Map[collections.Pair[[]byte, []byte], uint64]
	ActionThresholds collections.Map[collections.Pair[[]byte, uint64], uint64]
	Params           collections.Item[string]
}

// NewKeeper creates a new Keeper instance
func NewKeeper(
	storeService store.KVStoreService,
	logger log.Logger,
	authority string,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	k := Keeper{
		storeService: storeService,
		logger:       logger.With("module", "x/"+types.ModuleName),
		authority:    authority,
		Accounts: collections.NewKeySet(
			sb,
			collections.NewPrefix(types.AccountKeyPrefix),
			"accounts",
			collections.BytesKey,
		),
		AssociatedKeys: collections.NewMap(
			sb,
			collections.NewPrefix(types.AssociatedKeyPrefix),
			"associated_keys",
			collections.PairKeyCodec(collections.BytesKey, collections.BytesKey),
			collections.Uint64Value,
		),
		ActionThresholds: collections.NewMap(
			sb,
			collections.NewPrefix(types.ActionThresholdKeyPrefix),
			"action_thresholds",
			collections.PairKeyCodec(collections.BytesKey, collections.Uint64Key),
			collections.Uint64Value,
		),
		Params: collections.NewItem(
			sb,
			collections.NewPrefix(types.ParamsKey),
			"params",
			collections.StringValue,
		),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(fmt.Sprintf("keysmanager: build schema: %v", err))
	}
	k.Schema = schema
	return k
}

// GetAuthority returns the address allowed to update params.
func (k Keeper) GetAuthority() string {
	return k.authority
}

func (k Keeper) Logger() log.Logger {
	return k.logger
}

// GetParams returns the stored params, or the defaults if none were set.
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	raw, err := k.Params.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.DefaultParams(), nil
	}
	if err != nil {
		return types.Params{}, fmt.Errorf("read params: %w", err)
	}
	var params types.Params
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return types.Params{}, fmt.Errorf("decode params: %w", err)
	}
	return params, nil
}

func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return k.Params.Set(ctx, string(raw))
}

// UpdateParams replaces the params on behalf of the module authority.
func (k Keeper) UpdateParams(ctx context.Context, requester string, params types.Params) error {
	if strings.TrimSpace(requester) != strings.TrimSpace(k.authority) {
		return fmt.Errorf("unauthorized params update: expected %s, got %s", k.authority, requester)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	// existing key sets must still fit under the new limit
	var overLimit error
	err := k.IterateAccounts(ctx, func(account types.Account) bool {
		if n := len(account.AssociatedKeys); n > int(params.MaxAssociatedKeys) {
			overLimit = errorsmod.Wrapf(types.ErrMaxKeysLimit,
				"account %s has %d associated keys, new max is %d", account.Owner, n, params.MaxAssociatedKeys)
			return true
		}
		return false
	})
	if err != nil {
		return err
	}
	if overLimit != nil {
		return overLimit
	}

	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	k.logger.Info("Params updated", "max_associated_keys", params.MaxAssociatedKeys)
	return nil
}

// loadAccount reads the full key set and thresholds of owner.
func (k Keeper) loadAccount(ctx context.Context, owner types.AccountHash) (types.Account, error) {
	exists, err := k.Accounts.Has(ctx, owner.Bytes())
	if err != nil {
		return types.Account{}, fmt.Errorf("read account %s: %w", owner, err)
	}
	if !exists {
		return types.Account{}, fmt.Errorf("account %s: %w", owner, collections.ErrNotFound)
	}

	account := types.Account{Owner: owner}
	rng := collections.NewPrefixedPairRange[[]byte, []byte](owner.Bytes())
	err = k.AssociatedKeys.Walk(ctx, rng, func(key collections.Pair[[]byte, []byte], value uint64) (bool, error) {
		hash, err := types.AccountHashFromBytes(key.K2())
		if err != nil {
			return true, err
		}
		weight, err := toWeight(value)
		if err != nil {
			return true, fmt.Errorf("associated key %s: %w", hash, err)
		}
		account.AssociatedKeys = append(account.AssociatedKeys, types.AssociatedKey{Account: hash, Weight: weight})
		return false, nil
	})
	if err != nil {
		return types.Account{}, fmt.Errorf("read associated keys of %s: %w", owner, err)
	}

	for _, kind := range types.ActionTypes() {
		value, err := k.ActionThresholds.Get(ctx, collections.Join(owner.Bytes(), uint64(kind)))
		if err != nil {
			return types.Account{}, fmt.Errorf("read %s threshold of %s: %w", kind, owner, err)
		}
		threshold, err := toWeight(value)
		if err != nil {
			return types.Account{}, fmt.Errorf("%s threshold of %s: %w", kind, owner, err)
		}
		account.ActionThresholds.Set(kind, threshold)
	}
	return account, nil
}

// storeAccount writes account as a whole. Existing associated keys of the
// owner are not cleared.
func (k Keeper) storeAccount(ctx context.Context, account types.Account) error {
	owner := account.Owner.Bytes()
	if err := k.Accounts.Set(ctx, owner); err != nil {
		return err
	}
	for _, key := range account.AssociatedKeys {
		if err := k.AssociatedKeys.Set(ctx, collections.Join(owner, key.Account.Bytes()), uint64(key.Weight)); err != nil {
			return err
		}
	}
	for _, kind := range types.ActionTypes() {
		value := uint64(account.ActionThresholds.Get(kind))
		if err := k.ActionThresholds.Set(ctx, collections.Join(owner, uint64(kind)), value); err != nil {
			return err
		}
	}
	return nil
}

func toWeight(value uint64) (types.Weight, error) {
	if value > math.MaxUint8 {
		return 0, fmt.Errorf("stored weight %d out of range", value)
	}
	return types.Weight(value), nil
}

func unwrapSDKContext(ctx context.Context) (sdk.Context, bool) {
	if ctx == nil {
		return sdk.Context{}, false
	}
	if sdkCtx, ok := ctx.(sdk.Context); ok {
		return sdkCtx, true
	}
	if val := ctx.Value(sdk.SdkContextKey); val != nil {
		if sdkCtx, ok := val.(sdk.Context); ok {
			return sdkCtx, true
		}
	}
	return sdk.Context{}, false
}

func emitEventIfPossible(ctx context.Context, event sdk.Event) {
	sdkCtx, ok := unwrapSDKContext(ctx)
	if !ok {
		return
	}
	if em := sdkCtx.EventManager(); em != nil {
		em.EmitEvent(event)
	}
}
