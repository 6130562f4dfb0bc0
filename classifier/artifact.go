package classifier

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gowebpki/jcs"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/liamcoop/churn/customer"
)

// DefaultPath is the well-known artifact location, relative to the working
// directory of the process.
const DefaultPath = "model_churn.json"

// SupportedFormat is the semver constraint an artifact's format_version
// must satisfy.
const SupportedFormat = "^1.0"

const defaultThreshold = 0.5

//go:embed schema.json
var artifactSchema string

var schema = jsonschema.MustCompileString("schema.json", artifactSchema)

// NumericWeight standardises a numeric column before weighting it
type NumericWeight struct {
	Weight float64 `json:"weight"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale,omitempty"`
}

// Artifact is the serialized form of a trained logistic churn model
type Artifact struct {
	FormatVersion string                        `json:"format_version"`
	Name          string                        `json:"name"`
	Features      []string                      `json:"features"`
	Intercept     float64                       `json:"intercept"`
	Threshold     *float64                      `json:"threshold,omitempty"`
	Probability   *bool                         `json:"probability,omitempty"`
	Numeric       map[string]NumericWeight      `json:"numeric,omitempty"`
	Categorical   map[string]map[string]float64 `json:"categorical,omitempty"`
	Terms         []Term                        `json:"terms,omitempty"`

	digest string
}

// Digest is the hex SHA-256 of the artifact's canonical (RFC 8785) JSON.
// It does not depend on key order or whitespace in the file.
func (a *Artifact) Digest() string {
	return a.digest
}

// Load reads, validates and compiles the artifact at path. A missing file
// yields an error matching ErrModelNotFound; anything else wrong with the
// file yields an *ArtifactError.
func Load(path string) (Classifier, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	m, err := Compile(a)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	return m, nil
}

// ReadArtifact reads and validates an artifact without compiling it. Files
// ending in .yaml or .yml are read as YAML, anything else as JSON.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrModelNotFound, path, err)
		}
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, &ArtifactError{Path: path, Err: err}
		}
	}

	a, err := ParseArtifact(data)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	return a, nil
}

// ParseArtifact validates JSON artifact bytes against the artifact schema,
// the supported format version and the feature order contract.
func ParseArtifact(data []byte) (*Artifact, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	if err := checkFormat(a.FormatVersion); err != nil {
		return nil, err
	}
	if err := checkFeatures(a.Features); err != nil {
		return nil, err
	}
	if err := a.checkWeights(); err != nil {
		return nil, err
	}

	canonical, err := jcs.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize artifact: %w", err)
	}
	sum := sha256.Sum256(canonical)
	a.digest = hex.EncodeToString(sum[:])

	return &a, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed YAML: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("YAML artifact is not representable as JSON: %w", err)
	}
	return out, nil
}

func checkFormat(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("format_version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(SupportedFormat)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("format_version %s is not supported (want %s)", version, SupportedFormat)
	}
	return nil
}

func checkFeatures(features []string) error {
	row := customer.Row{Columns: features, Values: make([]any, len(features))}
	if !row.MatchesOrder(customer.FeatureOrder) {
		return fmt.Errorf("%w: artifact declares %v, want %v", ErrFeatureMismatch, features, customer.FeatureOrder)
	}
	return nil
}

// checkWeights rejects weights on unknown columns, numeric weights on
// closed-choice columns, and categorical weights on options outside the
// column's domain.
func (a *Artifact) checkWeights() error {
	for name := range a.Numeric {
		f, ok := customer.Lookup(name)
		if !ok {
			return fmt.Errorf("numeric weight for unknown column %q", name)
		}
		if f.Kind == customer.KindEnum {
			return fmt.Errorf("numeric weight for closed-choice column %q", name)
		}
	}
	for name, levels := range a.Categorical {
		f, ok := customer.Lookup(name)
		if !ok {
			return fmt.Errorf("categorical weights for unknown column %q", name)
		}
		if f.Kind.Numeric() {
			return fmt.Errorf("categorical weights for numeric column %q", name)
		}
		for level := range levels {
			if !f.Allows(level) {
				return fmt.Errorf("categorical weight for %q has unknown option %q", name, level)
			}
		}
	}
	return nil
}
