package pipesmith

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrModelMustBeSet        = errors.New("model must be set")
	ErrEmptyLabel            = errors.New("step label must be set")
	ErrDuplicateStep         = errors.New("duplicate step label")
	ErrUnknownStep           = errors.New("unknown step label")
	ErrMissingTags           = errors.New("tag subset must be set")
	ErrNilCondition          = errors.New("condition must be set")
	ErrUnknownCondition      = errors.New("unknown condition kind")
	ErrInvalidCondition      = errors.New("invalid condition")
	ErrUnknownImplementation = errors.New("unknown implementation")
	ErrInvalidVariant        = errors.New("invalid variant")
	// ErrStopWalk can be returned by a Walk callback to stop the traversal without failing it.
	ErrStopWalk = errors.New("stop walk")
)

// ConfigurationError is returned when a grid cannot be built. It carries every problem detected, not only the
// first one.
type ConfigurationError struct {
	Problems []error
}

// NewConfigurationError groups problems into a ConfigurationError. It returns nil when there is no problem.
// Problems that are themselves configuration errors are flattened.
func NewConfigurationError(problems ...error) error {
	var all []error
	for _, problem := range problems {
		if problem == nil {
			continue
		}
		var cfgErr *ConfigurationError
		if errors.As(problem, &cfgErr) {
			all = append(all, cfgErr.Problems...)
			continue
		}
		all = append(all, problem)
	}
	if len(all) == 0 {
		return nil
	}

	return &ConfigurationError{Problems: all}
}

func (e *ConfigurationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, problem := range e.Problems {
		msgs[i] = problem.Error()
	}

	return fmt.Sprintf("invalid configuration (%d problems): %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Unwrap exposes the problems to errors.Is and errors.As.
func (e *ConfigurationError) Unwrap() []error {
	return e.Problems
}

// ConditionError is a problem found in the condition at Position in the declared conditions.
type ConditionError struct {
	Position int
	Err      error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition %d: %s", e.Position, e.Err)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}
