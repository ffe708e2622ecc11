package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/keeper"
	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

var keyPool = []types.AccountHash{owner, bob, joe, ali, testHash(0x05)}

func drawWeight(t *rapid.T, label string) int {
	return rapid.SampledFrom([]int{0, 1, 2, 3, 255}).Draw(t, label)
}

func drawCall(t *rapid.T) types.Call {
	signers := rapid.SliceOfN(rapid.SampledFrom(keyPool), 0, 3).Draw(t, "signers")
	args := types.RuntimeArgs{}
	call := types.Call{Owner: owner, Args: args, Signers: signers}

	switch rapid.IntRange(0, 3).Draw(t, "op") {
	case 0:
		call.EntryPoint = types.EntryPointSetKeyWeight
		_ = args.Insert(types.ArgAccount, rapid.SampledFrom(keyPool).Draw(t, "account"))
		_ = args.Insert(types.ArgWeight, drawWeight(t, "weight"))
	case 1:
		call.EntryPoint = types.EntryPointSetDeploymentThreshold
		_ = args.Insert(types.ArgWeight, rapid.IntRange(1, 6).Draw(t, "deployment"))
	case 2:
		call.EntryPoint = types.EntryPointSetKeyManagementThreshold
		_ = args.Insert(types.ArgWeight, rapid.IntRange(1, 6).Draw(t, "key_management"))
	default:
		n := rapid.IntRange(0, 4).Draw(t, "n")
		accounts := make([]types.AccountHash, n)
		weights := make([]int, n)
		for i := 0; i < n; i++ {
			accounts[i] = rapid.SampledFrom(keyPool).Draw(t, "batch_account")
			weights[i] = drawWeight(t, "batch_weight")
		}
		call.EntryPoint = types.EntryPointSetAll
		_ = args.Insert(types.ArgDeploymentThreshold, rapid.IntRange(1, 6).Draw(t, "batch_deployment"))
		_ = args.Insert(types.ArgKeyManagementThreshold, rapid.IntRange(1, 6).Draw(t, "batch_key_management"))
		_ = args.Insert(types.ArgAccounts, accounts)
		_ = args.Insert(types.ArgWeights, weights)
	}
	return call
}

// Every successful call keeps the account governable, and every failed call
// leaves the store exactly as it was.
func TestProperty_CallsPreserveInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k, ctx, err := newTestKeeper()
		require.NoError(t, err)
		require.NoError(t, k.SetParams(ctx, types.Params{MaxAssociatedKeys: 4}))
		require.NoError(t, k.CreateAccount(ctx, owner))

		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before, err := k.ExportGenesis(ctx)
			require.NoError(t, err)

			if err := k.Execute(ctx, drawCall(t)); err != nil {
				_, ok := types.Code(err)
				require.True(t, ok, "untyped error: %v", err)

				after, err := k.ExportGenesis(ctx)
				require.NoError(t, err)
				require.Equal(t, before, after)
				continue
			}

			account, err := k.GetAccount(ctx, owner)
			require.NoError(t, err)
			require.NoError(t, account.Validate(4))

			msg, broken := keeper.AllInvariants(k)(ctx)
			require.False(t, broken, msg)
		}
	})
}
