package cmd

import (
	"encoding/json"
	"sort"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

func weightArgs(weight int) map[string]json.RawMessage {
	return map[string]json.RawMessage{types.ArgWeight: mustJSON(weight)}
}

func keyWeightArgs(alias string, weight int) map[string]json.RawMessage {
	return map[string]json.RawMessage{
		types.ArgAccount: mustJSON(aliasPrefix + alias),
		types.ArgWeight:  mustJSON(weight),
	}
}

func setAllArgs(deployment, keyManagement int, aliases []string, weights []int) map[string]json.RawMessage {
	accounts := make([]string, len(aliases))
	for i, alias := range aliases {
		accounts[i] = aliasPrefix + alias
	}
	return map[string]json.RawMessage{
		types.ArgDeploymentThreshold:    mustJSON(deployment),
		types.ArgKeyManagementThreshold: mustJSON(keyManagement),
		types.ArgAccounts:               mustJSON(accounts),
		types.ArgWeights:                mustJSON(weights),
	}
}

func mustJSON(v any) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

var builtinScenarios = map[string]Scenario{
	"deploy-only-keys": {
		Name:        "deploy-only-keys",
		Description: "Two extra keys may deploy together but only the main key manages keys",
		Owner:       "@main",
		Steps: []Step{
			{Description: "raise main key weight to 3", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("main", 3), Signers: []string{"@main"}},
			{Description: "key management threshold 3", EntryPoint: types.EntryPointSetKeyManagementThreshold, Args: weightArgs(3), Signers: []string{"@main"}},
			{Description: "deployment threshold 2", EntryPoint: types.EntryPointSetDeploymentThreshold, Args: weightArgs(2), Signers: []string{"@main"}},
			{Description: "add first key with weight 1", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("first", 1), Signers: []string{"@main"}},
			{Description: "add second key with weight 1", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("second", 1), Signers: []string{"@main"}},
			{
				Description: "first and second cannot add a key",
				EntryPoint:  types.EntryPointSetKeyWeight,
				Args:        keyWeightArgs("third", 1),
				Signers:     []string{"@first", "@second"},
				ExpectCode:  types.ErrPermissionDenied.ABCICode(),
			},
			{Description: "remove first key", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("first", 0), Signers: []string{"@main"}},
			{Description: "remove second key", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("second", 0), Signers: []string{"@main"}},
		},
	},
	"account-theft": {
		Name:        "account-theft",
		Description: "A key added by the owner removes the owner, who is locked out afterwards",
		Owner:       "@owner",
		Steps: []Step{
			{Description: "owner adds bob with weight 2", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("bob", 2), Signers: []string{"@owner"}},
			{Description: "bob adds joe with weight 2", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("joe", 2), Signers: []string{"@bob"}},
			{Description: "joe removes owner", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("owner", 0), Signers: []string{"@joe"}},
			{
				Description: "owner can no longer remove joe",
				EntryPoint:  types.EntryPointSetKeyWeight,
				Args:        keyWeightArgs("joe", 0),
				Signers:     []string{"@owner"},
				ExpectCode:  types.ErrPermissionDenied.ABCICode(),
			},
		},
	},
	"set-all": {
		Name:        "set-all",
		Description: "Batch updates are all-or-nothing",
		Owner:       "@main",
		Steps: []Step{
			{
				Description: "removing the only signer before raising thresholds aborts the batch",
				EntryPoint:  types.EntryPointSetAll,
				Args:        setAllArgs(2, 2, []string{"first", "second", "main"}, []int{2, 2, 0}),
				Signers:     []string{"@main"},
				ExpectCode:  types.ErrPermissionDenied.ABCICode(),
			},
			{
				Description: "keys then both thresholds",
				EntryPoint:  types.EntryPointSetAll,
				Args:        setAllArgs(2, 2, []string{"main", "first", "second"}, []int{3, 2, 2}),
				Signers:     []string{"@main"},
			},
			{Description: "first removes main", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("main", 0), Signers: []string{"@first"}},
			{
				Description: "main is locked out",
				EntryPoint:  types.EntryPointSetKeyWeight,
				Args:        keyWeightArgs("main", 2),
				Signers:     []string{"@main"},
				ExpectCode:  types.ErrPermissionDenied.ABCICode(),
			},
			{
				Description: "thresholds above the remaining weight are rejected",
				EntryPoint:  types.EntryPointSetAll,
				Args:        setAllArgs(2, 5, []string{}, []int{}),
				Signers:     []string{"@first", "@second"},
				ExpectCode:  types.ErrInsufficientTotalWeight.ABCICode(),
			},
		},
	},
}

// BuiltinScenarioNames lists the bundled scenarios in name order.
func BuiltinScenarioNames() []string {
	names := make([]string, 0, len(builtinScenarios))
	for name := range builtinScenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func BuiltinScenario(name string) (Scenario, bool) {
	sc, ok := builtinScenarios[name]
	return sc, ok
}
