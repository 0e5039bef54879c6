package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vocdoni/poseidongen/internal/config"
)

// paramFlags holds the flag values shared by the subcommands. Only flags set
// on the command line override the configuration file.
type paramFlags struct {
	configPath string
	values     config.Config
}

func (p *paramFlags) bind(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.StringVar(&p.configPath, "config", "", "YAML file with the run configuration")
	fs.StringVar(&p.values.Field, "field", d.Field, "field kind: prime (1) or binary (0)")
	fs.StringVar(&p.values.SBox, "sbox", d.SBox, "s-box: power (0) or inverse (1)")
	fs.Uint32Var(&p.values.Alpha, "alpha", d.Alpha, "exponent of the power s-box")
	fs.IntVar(&p.values.FieldBits, "n", 0, "field size in bits")
	fs.IntVar(&p.values.StateSize, "t", 0, "state width")
	fs.IntVar(&p.values.FullRounds, "full-rounds", 0, "number of full rounds")
	fs.IntVar(&p.values.PartialRounds, "partial-rounds", 0, "number of partial rounds")
	fs.StringVar(&p.values.Modulus, "modulus", "", "prime, reduction polynomial or field name (bn254, bls12-377, bls12-381, bw6-761, goldilocks)")
}

// positionalArgs accepts nothing or <field> <s_box> <n> <t> <R_F> <R_P> [<modulus>].
func positionalArgs(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0, 6, 7:
		return nil
	}
	return errors.Errorf("expected <field> <s_box> <n> <t> <R_F> <R_P> [<modulus>], got %d arguments", len(args))
}

// resolve merges the configuration file, the changed flags and the
// positional arguments, in increasing priority.
func (p *paramFlags) resolve(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg := config.Default()
	if p.configPath != "" {
		var err error
		if cfg, err = config.Load(p.configPath); err != nil {
			return cfg, err
		}
	}

	fs := cmd.Flags()
	override := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	v := p.values
	override("field", func() { cfg.Field = v.Field })
	override("sbox", func() { cfg.SBox = v.SBox })
	override("alpha", func() { cfg.Alpha = v.Alpha })
	override("n", func() { cfg.FieldBits = v.FieldBits })
	override("t", func() { cfg.StateSize = v.StateSize })
	override("full-rounds", func() { cfg.FullRounds = v.FullRounds })
	override("partial-rounds", func() { cfg.PartialRounds = v.PartialRounds })
	override("modulus", func() { cfg.Modulus = v.Modulus })
	override("sampling", func() { cfg.Sampling = v.Sampling })
	override("max-candidates", func() { cfg.MaxCandidates = v.MaxCandidates })
	override("max-draws", func() { cfg.MaxDraws = v.MaxDraws })
	override("generic", func() { cfg.Generic = v.Generic })
	override("format", func() { cfg.Format = v.Format })
	override("package", func() { cfg.Package = v.Package })
	override("prefix", func() { cfg.Prefix = v.Prefix })
	override("output", func() { cfg.Output = v.Output })

	if len(args) == 0 {
		return cfg, nil
	}
	cfg.Field, cfg.SBox = args[0], args[1]
	ints := []*int{&cfg.FieldBits, &cfg.StateSize, &cfg.FullRounds, &cfg.PartialRounds}
	names := []string{"n", "t", "R_F", "R_P"}
	for i, dst := range ints {
		n, err := config.ParseInt(names[i], args[2+i])
		if err != nil {
			return cfg, err
		}
		*dst = n
	}
	if len(args) == 7 {
		cfg.Modulus = args[6]
	}
	return cfg, nil
}
