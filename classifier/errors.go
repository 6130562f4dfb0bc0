package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotFound is returned when no artifact exists at the model path.
	// It wraps fs.ErrNotExist.
	ErrModelNotFound = errors.New("model artifact not found")

	// ErrFeatureMismatch is returned when a row or artifact does not follow
	// customer.FeatureOrder.
	ErrFeatureMismatch = errors.New("feature order mismatch")
)

// ArtifactError reports an artifact that exists but cannot be used
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("invalid model artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}
