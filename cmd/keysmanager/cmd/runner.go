package cmd

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/log"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"golang.org/x/crypto/blake2b"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/keeper"
	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

// aliasPrefix marks a string that names a scenario key instead of spelling
// out its account hash.
const aliasPrefix = "@"

// Scenario is a scripted sequence of keys manager calls against one account.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner"`
	Steps       []Step `json:"steps"`
}

// Step is one call and the error code it is expected to end with; 0 means
// success.
type Step struct {
	Description string                     `json:"description"`
	EntryPoint  string                     `json:"entry_point"`
	Args        map[string]json.RawMessage `json:"args"`
	Signers     []string                   `json:"signers"`
	ExpectCode  uint32                     `json:"expect_code"`
}

type StepResult struct {
	Index       int           `json:"index"`
	Description string        `json:"description"`
	EntryPoint  string        `json:"entry_point"`
	Code        uint32        `json:"code"`
	ExpectCode  uint32        `json:"expect_code"`
	Error       string        `json:"error,omitempty"`
	Passed      bool          `json:"passed"`
	Account     types.Account `json:"account"`
}

type Report struct {
	Scenario string            `json:"scenario"`
	Owner    types.AccountHash `json:"owner"`
	Passed   bool              `json:"passed"`
	Steps    []StepResult      `json:"steps"`
}

// DeriveAccount returns the account hash of the ed25519 key deterministically
// derived from alias.
func DeriveAccount(alias string) types.AccountHash {
	seed := blake2b.Sum256([]byte("keysmanager-scenario/" + alias))
	pub := ed25519.NewKeyFromSeed(seed[:]).Public().(ed25519.PublicKey)
	return types.AccountHashFromPublicKey(pub)
}

// ResolveAccount accepts "@alias" or a hex account hash.
func ResolveAccount(s string) (types.AccountHash, error) {
	if alias, ok := strings.CutPrefix(s, aliasPrefix); ok {
		if alias == "" {
			return types.AccountHash{}, fmt.Errorf("empty account alias")
		}
		return DeriveAccount(alias), nil
	}
	return types.AccountHashFromHex(s)
}

// RunScenario executes sc on a fresh in-memory store. A step whose code
// differs from its expectation fails the report but does not stop the run;
// storage faults and broken invariants return an error.
func RunScenario(logger log.Logger, params types.Params, sc Scenario) (*Report, error) {
	owner, err := ResolveAccount(sc.Owner)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: owner: %w", sc.Name, err)
	}

	k, ctx, err := newMemKeeper(logger)
	if err != nil {
		return nil, err
	}
	gs := types.DefaultGenesisState()
	gs.Params = params
	if err := k.InitGenesis(ctx, gs); err != nil {
		return nil, err
	}
	if err := k.CreateAccount(ctx, owner); err != nil {
		return nil, err
	}

	report := &Report{Scenario: sc.Name, Owner: owner, Passed: true}
	for i, step := range sc.Steps {
		call, err := buildCall(owner, step)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: step %d: %w", sc.Name, i+1, err)
		}

		result := StepResult{
			Index:       i + 1,
			Description: step.Description,
			EntryPoint:  step.EntryPoint,
			ExpectCode:  step.ExpectCode,
		}
		if execErr := k.Execute(ctx, call); execErr != nil {
			code, ok := types.Code(execErr)
			if !ok {
				return nil, fmt.Errorf("scenario %s: step %d: %w", sc.Name, i+1, execErr)
			}
			result.Code = code
			result.Error = execErr.Error()
		}
		result.Passed = result.Code == step.ExpectCode
		report.Passed = report.Passed && result.Passed

		result.Account, err = k.GetAccount(ctx, owner)
		if err != nil {
			return nil, err
		}
		report.Steps = append(report.Steps, result)

		logger.Debug("Scenario step finished",
			"scenario", sc.Name,
			"step", result.Index,
			"code", result.Code,
			"passed", result.Passed,
		)
	}

	if msg, broken := keeper.AllInvariants(k)(ctx); broken {
		return report, fmt.Errorf("scenario %s left the store inconsistent: %s", sc.Name, msg)
	}
	return report, nil
}

func buildCall(owner types.AccountHash, step Step) (types.Call, error) {
	args := make(types.RuntimeArgs, len(step.Args))
	for name, raw := range step.Args {
		resolved, err := resolveAliases(raw)
		if err != nil {
			return types.Call{}, fmt.Errorf("argument %q: %w", name, err)
		}
		args[name] = resolved
	}

	signers := make([]types.AccountHash, 0, len(step.Signers))
	for _, signer := range step.Signers {
		hash, err := ResolveAccount(signer)
		if err != nil {
			return types.Call{}, fmt.Errorf("signer %q: %w", signer, err)
		}
		signers = append(signers, hash)
	}

	return types.Call{
		Owner:      owner,
		EntryPoint: step.EntryPoint,
		Args:       args,
		Signers:    signers,
	}, nil
}

// resolveAliases replaces every "@alias" string in raw with the hex account
// hash of the alias. Everything else is passed through untouched.
func resolveAliases(raw json.RawMessage) (json.RawMessage, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		// left for the decoder to report with its argument code
		return raw, nil
	}
	resolved, changed := substituteAliases(value)
	if !changed {
		return raw, nil
	}
	return json.Marshal(resolved)
}

func substituteAliases(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		if alias, ok := strings.CutPrefix(v, aliasPrefix); ok && alias != "" {
			return DeriveAccount(alias).String(), true
		}
		return v, false
	case []any:
		changed := false
		for i, item := range v {
			var itemChanged bool
			v[i], itemChanged = substituteAliases(item)
			changed = changed || itemChanged
		}
		return v, changed
	}
	return value, false
}

func newMemKeeper(logger log.Logger) (keeper.Keeper, sdk.Context, error) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, logger, storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return keeper.Keeper{}, sdk.Context{}, fmt.Errorf("load in-memory store: %w", err)
	}

	header := tmproto.Header{
		ChainID: "keysmanager-local",
		Height:  1,
		Time:    time.Now().UTC(),
	}
	ctx := sdk.NewContext(cms, header, false, logger)
	k := keeper.NewKeeper(runtime.NewKVStoreService(storeKey), logger, "")
	return k, ctx, nil
}
