package main

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vocdoni/poseidongen"
	"github.com/vocdoni/poseidongen/emit"
)

func newGenerateCmd(a *app) *cobra.Command {
	var flags paramFlags
	cmd := &cobra.Command{
		Use:   "generate [<field> <s_box> <n> <t> <R_F> <R_P> [<modulus>]]",
		Short: "Generate the constants of a Poseidon instance",
		Example: `  poseidongen generate 1 0 254 3 8 57 bn254 --sampling reduce
  poseidongen generate --config bn254.yaml --format json -o bn254.json`,
		Args: positionalArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			set, err := cfg.ParameterSet()
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			res, err := poseidongen.Generate(set, append(opts, poseidongen.WithLogger(a.log))...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Output != "" {
				f, err := os.Create(cfg.Output)
				if err != nil {
					return errors.Wrap(err, "creating output file")
				}
				defer f.Close()
				out = f
			}
			if err := write(out, res, cfg.Format, emit.GoOptions{Package: cfg.Package, Prefix: cfg.Prefix}); err != nil {
				return err
			}
			a.log.Info().
				Str("fingerprint", poseidongen.FingerprintHex(res)).
				Int("candidates", res.Candidates).
				Int("draws", res.Draws).
				Msg("parameters generated")
			return nil
		},
	}
	flags.bind(cmd)
	fs := cmd.Flags()
	fs.StringVar(&flags.values.Sampling, "sampling", "reject", "prime field matrix draws: reject or reduce")
	fs.IntVar(&flags.values.MaxCandidates, "max-candidates", 0, "give up after this many MDS candidates (0 = unbounded)")
	fs.IntVar(&flags.values.MaxDraws, "max-draws", 0, "give up after this many field element draws (0 = unbounded)")
	fs.BoolVar(&flags.values.Generic, "generic", false, "use math/big arithmetic even when gnark-crypto has the field")
	fs.StringVar(&flags.values.Format, "format", "go", "output format: go, go-hex or json")
	fs.StringVar(&flags.values.Package, "package", "params", "package clause of the generated Go file")
	fs.StringVar(&flags.values.Prefix, "prefix", "", "prefix of the generated Go identifiers")
	fs.StringVarP(&flags.values.Output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func write(w io.Writer, res *poseidongen.Result, format string, opts emit.GoOptions) error {
	switch strings.ToLower(format) {
	case "go":
		return emit.Go(w, res, opts)
	case "go-hex":
		opts.Hex = true
		return emit.Go(w, res, opts)
	case "json":
		return emit.JSON(w, res)
	}
	return errors.Errorf("unknown output format %q", format)
}
