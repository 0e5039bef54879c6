// Package config reads generator runs from YAML files. Keys mirror the
// command line flags of cmd/poseidongen.
package config

import (
	"bytes"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vocdoni/poseidongen"
	"github.com/vocdoni/poseidongen/field"
)

// Config describes one generator run and how to write its output.
type Config struct {
	Field         string `yaml:"field"`
	SBox          string `yaml:"sbox"`
	Alpha         uint32 `yaml:"alpha"`
	FieldBits     int    `yaml:"n"`
	StateSize     int    `yaml:"t"`
	FullRounds    int    `yaml:"full_rounds"`
	PartialRounds int    `yaml:"partial_rounds"`
	// Modulus is a decimal or 0x-prefixed integer, or the name of a
	// gnark-crypto field such as "bn254". Binary fields take the reduction
	// polynomial as an integer.
	Modulus string `yaml:"modulus"`

	Sampling      string `yaml:"sampling"`
	MaxCandidates int    `yaml:"max_candidates"`
	MaxDraws      int    `yaml:"max_draws"`
	Generic       bool   `yaml:"generic"`

	Format  string `yaml:"format"`
	Package string `yaml:"package"`
	Prefix  string `yaml:"prefix"`
	Output  string `yaml:"output"`
}

// Default returns the x^5 prime field configuration with Go output.
func Default() Config {
	return Config{
		Field:    "prime",
		SBox:     "power",
		Alpha:    5,
		Sampling: "reject",
		Format:   "go",
		Package:  "params",
	}
}

// Load reads path on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: reading file")
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default. Unknown keys are rejected and an
// empty document yields Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "config: decoding yaml")
	}
	return cfg, nil
}

// ParameterSet converts the generator fields. Range checks are left to
// poseidongen.Generate.
func (c Config) ParameterSet() (poseidongen.ParameterSet, error) {
	kind, err := ParseFieldKind(c.Field)
	if err != nil {
		return poseidongen.ParameterSet{}, err
	}
	inverse, err := ParseSBox(c.SBox)
	if err != nil {
		return poseidongen.ParameterSet{}, err
	}
	mod, err := ParseModulus(c.Modulus)
	if err != nil {
		return poseidongen.ParameterSet{}, err
	}
	set := poseidongen.ParameterSet{
		FieldKind:     kind,
		FieldBits:     c.FieldBits,
		StateSize:     c.StateSize,
		FullRounds:    c.FullRounds,
		PartialRounds: c.PartialRounds,
		Alpha:         poseidongen.Alpha{Exponent: c.Alpha, Inverse: inverse},
		Modulus:       mod,
	}
	if inverse {
		set.Alpha.Exponent = 0
	}
	return set, nil
}

// Options returns the generator options selected by the file.
func (c Config) Options() ([]poseidongen.Option, error) {
	var opts []poseidongen.Option
	switch strings.ToLower(c.Sampling) {
	case "", "reject":
	case "reduce":
		opts = append(opts, poseidongen.WithMatrixSampling(poseidongen.SampleReduce))
	default:
		return nil, errors.Errorf("config: unknown sampling mode %q", c.Sampling)
	}
	if c.MaxCandidates > 0 {
		opts = append(opts, poseidongen.WithMaxCandidates(c.MaxCandidates))
	}
	if c.MaxDraws > 0 {
		opts = append(opts, poseidongen.WithMaxDraws(c.MaxDraws))
	}
	if c.Generic {
		opts = append(opts, poseidongen.WithGenericArithmetic())
	}
	return opts, nil
}

// ParseFieldKind accepts "prime"/"binary" and the numeric seed codes 1/0.
func ParseFieldKind(s string) (field.Kind, error) {
	switch strings.ToLower(s) {
	case "1", "prime", "gf(p)":
		return field.Prime, nil
	case "0", "binary", "gf(2^n)":
		return field.BinaryExtension, nil
	}
	return 0, errors.Errorf("config: unknown field kind %q", s)
}

// ParseSBox reports whether s names the inverse S-box. It accepts
// "power"/"inverse" and the numeric seed codes 0/1.
func ParseSBox(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "0", "power", "":
		return false, nil
	case "1", "inverse":
		return true, nil
	}
	return false, errors.Errorf("config: unknown s-box %q", s)
}

// ParseModulus accepts a field name, a decimal integer or a 0x/0b/0o
// prefixed one. The empty string yields nil.
func ParseModulus(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if f := field.ByName(strings.ToLower(s)); f != nil {
		return f.Modulus(), nil
	}
	v, ok := new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), 0)
	if !ok {
		return nil, errors.Errorf("config: invalid modulus %q", s)
	}
	return v, nil
}

// ParseInt parses a positional integer argument.
func ParseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s", name)
	}
	return v, nil
}
