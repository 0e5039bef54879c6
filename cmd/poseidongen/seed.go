package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var flags paramFlags
	cmd := &cobra.Command{
		Use:   "seed [<field> <s_box> <n> <t> <R_F> <R_P> [<modulus>]]",
		Short: "Print the 80-bit Grain LFSR seed of a parameter set",
		Args:  positionalArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			set, err := cfg.ParameterSet()
			if err != nil {
				return err
			}
			if err := set.Validate(); err != nil {
				return err
			}
			seed := set.Seed().String()
			v, _ := new(big.Int).SetString(seed, 2)
			a.log.Debug().Str("seed", seed).Msg("seed packed")
			fmt.Fprintln(cmd.OutOrStdout(), seed)
			fmt.Fprintf(cmd.OutOrStdout(), "0x%020x\n", v)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}
