package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

func TestGenesisState_Validate(t *testing.T) {
	require.NoError(t, types.DefaultGenesisState().Validate())

	owner := hashOf(0x01)
	ok := types.GenesisState{Params: types.DefaultParams(), Accounts: []types.Account{types.NewAccount(owner)}}
	require.NoError(t, ok.Validate())

	duplicate := ok
	duplicate.Accounts = []types.Account{types.NewAccount(owner), types.NewAccount(owner)}
	require.ErrorContains(t, duplicate.Validate(), "duplicate account")

	badParams := ok
	badParams.Params = types.Params{}
	require.ErrorContains(t, badParams.Validate(), "invalid params")

	locked := types.NewAccount(owner)
	locked.ActionThresholds.KeyManagement = 3
	lockout := types.GenesisState{Params: types.DefaultParams(), Accounts: []types.Account{locked}}
	require.ErrorContains(t, lockout.Validate(), "index 0")
}

type appOptions map[string]interface{}

func (o appOptions) Get(key string) interface{} { return o[key] }

func TestParamsFromAppOptions(t *testing.T) {
	params, err := types.ParamsFromAppOptions(nil)
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), params)

	params, err = types.ParamsFromAppOptions(appOptions{})
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams(), params)

	params, err = types.ParamsFromAppOptions(appOptions{types.FlagMaxAssociatedKeys: "12"})
	require.NoError(t, err)
	require.Equal(t, uint32(12), params.MaxAssociatedKeys)

	params, err = types.ParamsFromAppOptions(appOptions{types.FlagMaxAssociatedKeys: 7})
	require.NoError(t, err)
	require.Equal(t, uint32(7), params.MaxAssociatedKeys)

	_, err = types.ParamsFromAppOptions(appOptions{types.FlagMaxAssociatedKeys: "many"})
	require.Error(t, err)
	_, err = types.ParamsFromAppOptions(appOptions{types.FlagMaxAssociatedKeys: 0})
	require.Error(t, err)
}

func TestActionThresholds(t *testing.T) {
	thresholds := types.DefaultActionThresholds()
	thresholds.Set(types.ActionTypeKeyManagement, 5)
	thresholds.Set(types.ActionTypeDeployment, 2)
	require.Equal(t, types.Weight(5), thresholds.Get(types.ActionTypeKeyManagement))
	require.Equal(t, types.Weight(2), thresholds.Get(types.ActionTypeDeployment))
	require.NoError(t, thresholds.Validate())

	require.Equal(t, "deployment", types.ActionTypeDeployment.String())
	require.Equal(t, "key_management", types.ActionTypeKeyManagement.String())
}

func TestNewAuthorization_Deduplicates(t *testing.T) {
	a, b := hashOf(0x01), hashOf(0x02)
	auth := types.NewAuthorization(a, b, a)
	require.Equal(t, []types.AccountHash{a, b}, auth.Keys())
	require.False(t, auth.Empty())
	require.True(t, types.NewAuthorization().Empty())
}
