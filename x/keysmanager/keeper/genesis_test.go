package keeper_test

import (
	"testing"

	"cosmossdk.io/collections"
	"github.com/stretchr/testify/require"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/keeper"
	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

func TestGenesis_RoundTrip(t *testing.T) {
	k, ctx := setupKeeper(t)
	require.NoError(t, k.SetParams(ctx, types.Params{MaxAssociatedKeys: 10}))
	require.NoError(t, k.Execute(ctx, setAllCall(t, 2, 3, []types.AccountHash{owner, bob, joe}, []int{3, 2, 1}, owner)))
	require.NoError(t, k.CreateAccount(ctx, ali))

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Accounts, 2)

	fresh, freshCtx, err := newTestKeeper()
	require.NoError(t, err)
	require.NoError(t, fresh.InitGenesis(freshCtx, exported))

	reexported, err := fresh.ExportGenesis(freshCtx)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	msg, broken := keeper.AllInvariants(fresh)(freshCtx)
	require.False(t, broken, msg)
}

func TestInitGenesis_RejectsInvalidState(t *testing.T) {
	k, ctx, err := newTestKeeper()
	require.NoError(t, err)

	account := types.NewAccount(owner)
	account.ActionThresholds.KeyManagement = 2
	gs := &types.GenesisState{Params: types.DefaultParams(), Accounts: []types.Account{account}}

	require.Error(t, k.InitGenesis(ctx, gs))
	exists, err := k.HasAccount(ctx, owner)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestInitGenesis_NilUsesDefaults(t *testing.T) {
	k, ctx, err := newTestKeeper()
	require.NoError(t, err)

	require.NoError(t, k.InitGenesis(ctx, nil))
	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Equal(t, types.DefaultGenesisState(), exported)
}

func TestInvariants_HoldAfterOperations(t *testing.T) {
	k, ctx := setupKeeper(t)
	require.NoError(t, k.Execute(ctx, setKeyWeightCall(t, bob, 2, owner)))
	require.NoError(t, k.Execute(ctx, setThresholdCall(t, types.EntryPointSetKeyManagementThreshold, 3, owner)))

	msg, broken := keeper.AllInvariants(k)(ctx)
	require.False(t, broken, msg)
}

func TestInvariants_DetectCorruptedStore(t *testing.T) {
	t.Run("deployment above key management", func(t *testing.T) {
		k, ctx := setupKeeper(t)
		key := collections.Join(owner.Bytes(), uint64(types.ActionTypeDeployment))
		require.NoError(t, k.ActionThresholds.Set(ctx, key, 2))

		msg, broken := keeper.ThresholdOrderingInvariant(k)(ctx)
		require.True(t, broken)
		require.Contains(t, msg, "exceeds key management threshold")
	})

	t.Run("threshold above total weight", func(t *testing.T) {
		k, ctx := setupKeeper(t)
		key := collections.Join(owner.Bytes(), uint64(types.ActionTypeKeyManagement))
		require.NoError(t, k.ActionThresholds.Set(ctx, key, 9))

		msg, broken := keeper.NoLockoutInvariant(k)(ctx)
		require.True(t, broken)
		require.Contains(t, msg, "exceeds total weight")
	})

	t.Run("too many keys", func(t *testing.T) {
		k, ctx := setupKeeper(t)
		require.NoError(t, k.Execute(ctx, setKeyWeightCall(t, bob, 1, owner)))
		require.NoError(t, k.SetParams(ctx, types.Params{MaxAssociatedKeys: 1}))

		msg, broken := keeper.MaxKeysInvariant(k)(ctx)
		require.True(t, broken)
		require.Contains(t, msg, "has 2 associated keys")
	})

	t.Run("zero weight", func(t *testing.T) {
		k, ctx := setupKeeper(t)
		require.NoError(t, k.AssociatedKeys.Set(ctx, collections.Join(owner.Bytes(), bob.Bytes()), 0))

		_, broken := keeper.PositiveWeightsInvariant(k)(ctx)
		require.True(t, broken)
		_, broken = keeper.AllInvariants(k)(ctx)
		require.True(t, broken)
	})
}
