package poseidongen

import (
	"github.com/rs/zerolog"

	"github.com/vocdoni/poseidongen/internal/sample"
)

// SampleMode selects how prime field matrix draws at or above p are handled.
type SampleMode = sample.Mode

const (
	// SampleReject redraws out of range values, as round constants do.
	SampleReject = sample.Reject
	// SampleReduce keeps out of range matrix draws modulo p. This is what
	// the widely deployed BN254 instances (circomlib, arkworks) were
	// generated with.
	SampleReduce = sample.Reduce
)

type config struct {
	logger        zerolog.Logger
	maxCandidates int
	maxDraws      int
	sampling      SampleMode
	generic       bool
}

func defaultConfig() config {
	return config{logger: zerolog.Nop(), sampling: SampleReject}
}

// Option configures Generate.
type Option func(*config)

// WithLogger sets the logger generation progress is reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithMaxCandidates bounds the number of MDS candidates checked. Zero means
// no bound.
func WithMaxCandidates(n int) Option {
	return func(c *config) { c.maxCandidates = n }
}

// WithMaxDraws bounds the number of n-bit values read from the bit
// generator, rejected ones included. Zero means no bound.
func WithMaxDraws(n int) Option {
	return func(c *config) { c.maxDraws = n }
}

// WithMatrixSampling selects how matrix entries are drawn.
func WithMatrixSampling(m SampleMode) Option {
	return func(c *config) { c.sampling = m }
}

// WithGenericArithmetic forces math/big arithmetic for prime fields that
// have a gnark-crypto backend.
func WithGenericArithmetic() Option {
	return func(c *config) { c.generic = true }
}
