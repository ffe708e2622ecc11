package cmd

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cosmossdk.io/log"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuiltinScenariosPass(t *testing.T) {
	for _, name := range BuiltinScenarioNames() {
		sc, _ := BuiltinScenario(name)
		report, err := RunScenario(log.NewNopLogger(), types.DefaultParams(), sc)
		if err != nil {
			t.Fatalf("scenario %s: %v", name, err)
		}
		if !report.Passed {
			for _, step := range report.Steps {
				if !step.Passed {
					t.Errorf("scenario %s step %d (%s): code %d, expected %d: %s",
						name, step.Index, step.Description, step.Code, step.ExpectCode, step.Error)
				}
			}
		}
	}
}

func TestRunCommandFromFile(t *testing.T) {
	scenario := map[string]interface{}{
		"name":  "file-scenario",
		"owner": "@owner",
		"steps": []map[string]interface{}{
			{
				"description": "add bob",
				"entry_point": types.EntryPointSetKeyWeight,
				"args":        map[string]interface{}{"account": "@bob", "weight": 2},
				"signers":     []string{"@owner"},
			},
			{
				"description": "deployment above key management",
				"entry_point": types.EntryPointSetDeploymentThreshold,
				"args":        map[string]interface{}{"weight": 2},
				"signers":     []string{"@owner"},
				"expect_code": 7,
			},
		},
	}
	payload, err := json.Marshal(scenario)
	if err != nil {
		t.Fatalf("marshal scenario: %v", err)
	}

	path := filepath.Join(t.TempDir(), "scenario.json")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write scenario file: %v", err)
	}

	output, err := executeRoot(t, "run", path, "--output", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("execute command: %v\n%s", err, output)
	}

	var report Report
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, output)
	}
	if !report.Passed || len(report.Steps) != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	final := report.Steps[1].Account
	if final.Weight(DeriveAccount("bob")) != 2 {
		t.Fatalf("expected bob with weight 2, got %+v", final.AssociatedKeys)
	}
}

func TestRunCommandReportsUnexpectedCodes(t *testing.T) {
	sc := Scenario{
		Name:  "wrong-expectation",
		Owner: "@owner",
		Steps: []Step{{
			Description: "expects success but is rejected",
			EntryPoint:  types.EntryPointSetKeyManagementThreshold,
			Args:        weightArgs(9),
			Signers:     []string{"@owner"},
		}},
	}
	report, err := RunScenario(log.NewNopLogger(), types.DefaultParams(), sc)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if report.Passed || report.Steps[0].Code != types.ErrInsufficientTotalWeight.ABCICode() {
		t.Fatalf("expected failed report with code 8, got %+v", report)
	}
}

func TestRunCommandHonorsMaxKeys(t *testing.T) {
	sc := Scenario{
		Name:  "max-keys",
		Owner: "@owner",
		Steps: []Step{
			{Description: "add bob", EntryPoint: types.EntryPointSetKeyWeight, Args: keyWeightArgs("bob", 1), Signers: []string{"@owner"}},
			{
				Description: "add joe",
				EntryPoint:  types.EntryPointSetKeyWeight,
				Args:        keyWeightArgs("joe", 1),
				Signers:     []string{"@owner"},
				ExpectCode:  types.ErrMaxKeysLimit.ABCICode(),
			},
		},
	}
	payload, err := json.Marshal(sc)
	if err != nil {
		t.Fatalf("marshal scenario: %v", err)
	}
	path := filepath.Join(t.TempDir(), "max-keys.json")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write scenario file: %v", err)
	}

	output, err := executeRoot(t, "run", path, "--max-associated-keys", "2")
	if err != nil {
		t.Fatalf("execute command: %v\n%s", err, output)
	}
	if !strings.Contains(output, "[ok] 2. add joe") {
		t.Fatalf("expected max keys rejection to pass, got %s", output)
	}
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	if _, err := executeRoot(t, "entry-points", "--output", "yaml"); err == nil {
		t.Fatal("expected invalid output format to be rejected")
	}
	if _, err := executeRoot(t, "entry-points", "--log-level", "loud"); err == nil {
		t.Fatal("expected invalid log level to be rejected")
	}
	if _, err := executeRoot(t, "entry-points", "--max-associated-keys", "0"); err == nil {
		t.Fatal("expected zero max keys to be rejected")
	}
}

func TestEntryPointsCommand(t *testing.T) {
	output, err := executeRoot(t, "entry-points")
	if err != nil {
		t.Fatalf("execute command: %v", err)
	}
	want := "set_all(deployment_threshold: u8, key_management_threshold: u8, accounts: list<account_hash>, weights: list<u8>)"
	if !strings.Contains(output, want) {
		t.Fatalf("expected %q in output, got %s", want, output)
	}
}

func TestAccountHashCommand(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	pub := hex.EncodeToString(raw)
	want := "account-hash-44e8939addecbe7a28af95af337284613d2d82d158f90b9e669599a83d575fee"

	output, err := executeRoot(t, "account-hash", pub)
	if err != nil {
		t.Fatalf("execute command: %v", err)
	}
	if strings.TrimSpace(output) != want {
		t.Fatalf("expected %s, got %s", want, output)
	}

	output, err = executeRoot(t, "account-hash", "01"+pub)
	if err != nil {
		t.Fatalf("execute command with algorithm tag: %v", err)
	}
	if strings.TrimSpace(output) != want {
		t.Fatalf("expected %s, got %s", want, output)
	}

	if _, err := executeRoot(t, "account-hash", "abcd"); err == nil {
		t.Fatal("expected short key to be rejected")
	}
}

func TestResolveAccount(t *testing.T) {
	if DeriveAccount("bob") == DeriveAccount("joe") {
		t.Fatal("distinct aliases derived the same account")
	}
	hash, err := ResolveAccount("@bob")
	if err != nil || hash != DeriveAccount("bob") {
		t.Fatalf("resolve alias: %v %s", err, hash)
	}
	hash, err = ResolveAccount(DeriveAccount("bob").Formatted())
	if err != nil || hash != DeriveAccount("bob") {
		t.Fatalf("resolve formatted hash: %v %s", err, hash)
	}
	if _, err := ResolveAccount("@"); err == nil {
		t.Fatal("expected empty alias to be rejected")
	}
}
