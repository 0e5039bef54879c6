package params

import "github.com/pkg/errors"

var (
	// ErrUsage reports an invalid parameter set. Nothing is generated.
	ErrUsage = errors.New("poseidongen: invalid parameters")

	// ErrGenerationExhausted reports that a caller supplied retry cap was hit
	// before an acceptable value was drawn.
	ErrGenerationExhausted = errors.New("poseidongen: generation exhausted")
)

func usagef(format string, args ...any) error {
	return errors.Wrapf(ErrUsage, format, args...)
}
