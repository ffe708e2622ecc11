package cmd

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/casper-ecosystem/keys-manager/x/keysmanager/types"
)

func accountHashCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account-hash [ed25519-public-key-hex|@alias]",
		Short: "Print the account hash of an ed25519 public key",
		Long: `Print the account hash of an ed25519 public key. A leading "01" algorithm
tag on a 33-byte key is accepted. "@alias" prints the hash of the key derived
from the alias, as used in scenarios.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := accountHashOf(args[0])
			if err != nil {
				return err
			}
			if v.GetString(flagOutput) == outputJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"account_hash": hash.String(),
					"formatted":    hash.Formatted(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash.Formatted())
			return nil
		},
	}
	return cmd
}

func accountHashOf(arg string) (types.AccountHash, error) {
	if strings.HasPrefix(arg, aliasPrefix) {
		return ResolveAccount(arg)
	}
	bz, err := hex.DecodeString(strings.TrimSpace(arg))
	if err != nil {
		return types.AccountHash{}, fmt.Errorf("invalid public key hex: %w", err)
	}
	if len(bz) == ed25519.PublicKeySize+1 && bz[0] == 0x01 {
		bz = bz[1:]
	}
	if len(bz) != ed25519.PublicKeySize {
		return types.AccountHash{}, fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(bz))
	}
	return types.AccountHashFromPublicKey(ed25519.PublicKey(bz)), nil
}

func entryPointsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "entry-points",
		Short: "List callable entry points and their arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eps := types.EntryPoints()
			if v.GetString(flagOutput) == outputJSON {
				return writeJSON(cmd.OutOrStdout(), eps)
			}
			for _, ep := range eps {
				params := make([]string, len(ep.Params))
				for i, p := range ep.Params {
					params[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s(%s)\n", ep.Name, strings.Join(params, ", "))
			}
			return nil
		},
	}
}
