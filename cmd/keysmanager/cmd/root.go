package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

const (
	EnvPrefix = "KEYSMANAGER"

	flagLogLevel          = "log-level"
	flagMaxAssociatedKeys = "max-associated-keys"
	flagOutput            = "output"

	outputText = "text"
	outputJSON = "json"
)

// NewRootCmd creates the root command for keysmanager
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "keysmanager",
		Short: "Weighted multi-key account management",
		Long: `keysmanager manages the associated keys and action thresholds of an account.

Each associated key carries a weight. A call is authorized when the combined
weight of its signers reaches the deployment threshold, and key changes also
need the key management threshold. No change is accepted that would leave a
threshold unreachable by the remaining keys.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateConfig(v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagLogLevel, "info", `Log level, e.g. "debug" or "x/keysmanager:debug,*:error"`)
	flags.Uint32(flagMaxAssociatedKeys, types.DefaultMaxAssociatedKeys, "Maximum number of associated keys per account")
	flags.StringP(flagOutput, "o", outputText, "Output format: text|json")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag(flagLogLevel, flags.Lookup(flagLogLevel))
	_ = v.BindPFlag(flagOutput, flags.Lookup(flagOutput))
	_ = v.BindPFlag(types.FlagMaxAssociatedKeys, flags.Lookup(flagMaxAssociatedKeys))
	_ = v.BindEnv(types.FlagMaxAssociatedKeys, EnvPrefix+"_MAX_ASSOCIATED_KEYS")

	rootCmd.AddCommand(
		runCmd(v),
		scenariosCmd(),
		accountHashCmd(v),
		entryPointsCmd(v),
	)

	return rootCmd
}

func validateConfig(v *viper.Viper) error {
	if _, err := log.ParseLogLevel(v.GetString(flagLogLevel)); err != nil {
		return fmt.Errorf("invalid --%s: %w", flagLogLevel, err)
	}
	switch v.GetString(flagOutput) {
	case outputText, outputJSON:
	default:
		return fmt.Errorf("--%s must be one of %s, %s", flagOutput, outputText, outputJSON)
	}
	if _, err := types.ParamsFromAppOptions(v); err != nil {
		return err
	}
	return nil
}

func newLogger(v *viper.Viper, w io.Writer) (log.Logger, error) {
	filter, err := log.ParseLogLevel(v.GetString(flagLogLevel))
	if err != nil {
		return nil, err
	}
	return log.NewLogger(w, log.FilterOption(filter), log.ColorOption(false)), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario-file|builtin-name]",
		Short: "Execute a keys manager scenario against an in-memory store",
		Long: `Execute a scenario: a JSON file, or the name of a builtin scenario
(see "keysmanager scenarios"). Strings of the form "@alias" in owners, signers
and arguments stand for the account hash of a key derived from the alias.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			params, err := types.ParamsFromAppOptions(v)
			if err != nil {
				return err
			}

			report, err := RunScenario(logger, params, sc)
			if err != nil {
				return err
			}
			if err := printReport(cmd.OutOrStdout(), v.GetString(flagOutput), report); err != nil {
				return err
			}
			if !report.Passed {
				return fmt.Errorf("scenario %s: unexpected results", report.Scenario)
			}
			return nil
		},
	}
	return cmd
}

func loadScenario(arg string) (Scenario, error) {
	if sc, ok := BuiltinScenario(arg); ok {
		return sc, nil
	}
	bz, err := os.ReadFile(arg)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := json.Unmarshal(bz, &sc); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s: %w", arg, err)
	}
	if sc.Name == "" {
		sc.Name = arg
	}
	return sc, nil
}

func printReport(w io.Writer, output string, report *Report) error {
	if output == outputJSON {
		return writeJSON(w, report)
	}
	fmt.Fprintf(w, "scenario %s (owner %s)\n", report.Scenario, report.Owner.Formatted())
	for _, step := range report.Steps {
		status := "ok"
		if !step.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(w, "[%s] %d. %s (%s) code=%d expected=%d\n",
			status, step.Index, step.Description, step.EntryPoint, step.Code, step.ExpectCode)
		if step.Error != "" {
			fmt.Fprintf(w, "      %s\n", step.Error)
		}
	}
	if n := len(report.Steps); n > 0 {
		final := report.Steps[n-1].Account
		fmt.Fprintf(w, "thresholds: deployment=%d key_management=%d\n",
			final.ActionThresholds.Deployment, final.ActionThresholds.KeyManagement)
		for _, key := range final.AssociatedKeys {
			fmt.Fprintf(w, "  %s weight=%d\n", key.Account.Formatted(), key.Weight)
		}
	}
	return nil
}

func scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List builtin scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range BuiltinScenarioNames() {
				sc, _ := BuiltinScenario(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", name, sc.Description)
			}
			return nil
		},
	}
}
