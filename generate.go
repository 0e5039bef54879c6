// Package poseidongen derives the round constants and MDS matrix of a
// Poseidon permutation from its public parameters, together with the
// equivalent representation used by optimized partial rounds.
//
// Generation is deterministic: the same ParameterSet always yields the same
// constants, whatever arithmetic backend is used.
package poseidongen

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/vocdoni/poseidongen/field"
	"github.com/vocdoni/poseidongen/internal/grain"
	"github.com/vocdoni/poseidongen/internal/linalg"
	"github.com/vocdoni/poseidongen/internal/optimize"
	"github.com/vocdoni/poseidongen/internal/params"
	"github.com/vocdoni/poseidongen/internal/sample"
	"github.com/vocdoni/poseidongen/internal/security"
)

type (
	// ParameterSet is the public input of the generator.
	ParameterSet = params.Set
	// Alpha describes the S-box.
	Alpha = params.Alpha
	// Result holds everything needed to evaluate the permutation.
	Result = params.Parameters
	// OptimizedMDS is the partial round factorisation of a Result.
	OptimizedMDS = params.OptimizedMDS
)

var (
	// ErrUsage is returned for invalid parameter sets.
	ErrUsage = params.ErrUsage
	// ErrGenerationExhausted is returned when a bound set with
	// WithMaxCandidates or WithMaxDraws is reached.
	ErrGenerationExhausted = params.ErrGenerationExhausted
)

// Generate derives the constants for set: the round constants, then Cauchy
// candidates until one passes the invariant subspace checks, then the
// optimized partial round representation.
func Generate(set ParameterSet, opts ...Option) (*Result, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	f, err := set.NewField(cfg.generic)
	if err != nil {
		return nil, errors.Wrap(ErrUsage, err.Error())
	}
	log := cfg.logger.With().
		Str("field", f.String()).
		Int("n", set.FieldBits).
		Int("t", set.StateSize).
		Int("rf", set.FullRounds).
		Int("rp", set.PartialRounds).
		Logger()

	s := sample.New(grain.New(set.Seed()), f, set.FieldBits, cfg.maxDraws)
	rc, err := s.RoundConstants(set.NumConstants())
	if err != nil {
		return nil, err
	}
	log.Debug().Int("count", len(rc)).Int("rejected", s.Rejected()).Msg("round constants drawn")

	mds, candidates, err := drawMDS(s, set.StateSize, cfg, log)
	if err != nil {
		return nil, err
	}
	log.Info().Int("candidates", candidates).Int("draws", s.Draws()).Msg("MDS matrix accepted")

	eq, err := optimize.EquivalentMatrices(mds, set.PartialRounds)
	if err != nil {
		return nil, err
	}
	oarc, err := optimize.EquivalentConstants(rc, mds, set.FullRounds, set.PartialRounds)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Set:          set,
		Field:        f,
		Arc:          rc,
		OptimizedArc: oarc,
		MDS:          mds.Flat(),
		OptimizedMDS: OptimizedMDS{
			M00:            eq.M00,
			MI:             eq.MI.Flat(),
			VCollection:    flatten(eq.V),
			WHatCollection: flatten(eq.WHat),
		},
		Candidates: candidates,
		Draws:      s.Draws(),
	}
	if err := params.Validate(res); err != nil {
		return nil, err
	}
	return res, nil
}

func drawMDS(s *sample.Sampler, t int, cfg config, log zerolog.Logger) (*linalg.Matrix, int, error) {
	for candidates := 1; ; candidates++ {
		if cfg.maxCandidates > 0 && candidates > cfg.maxCandidates {
			return nil, 0, errors.Wrapf(ErrGenerationExhausted, "no secure MDS matrix in %d candidates", cfg.maxCandidates)
		}
		m, err := s.Cauchy(t, cfg.sampling)
		if err != nil {
			return nil, 0, err
		}
		verdict, err := security.Check(m)
		if err != nil {
			return nil, 0, err
		}
		if verdict.Secure {
			return m, candidates, nil
		}
		log.Debug().Int("candidate", candidates).Stringer("verdict", verdict).Msg("MDS candidate rejected")
	}
}

func flatten(vs []linalg.Vector) []field.Element {
	var out []field.Element
	for _, v := range vs {
		out = append(out, v...)
	}
	return out
}
