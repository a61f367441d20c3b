package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedSchema is the document schema_version range this build accepts.
var SupportedSchema = semver.MustParse("1.0.0")

var schemaConstraint = mustConstraint("^1")

// MalformedInputError wraps any failure to parse or structurally validate a
// configuration document. Callers map it to its own exit code; no partial
// validation is attempted after one.
type MalformedInputError struct {
	Path  string
	Cause error
}

func (e *MalformedInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed configuration: %v", e.Cause)
	}
	return fmt.Sprintf("malformed configuration %s: %v", e.Path, e.Cause)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Cause
}

// Load reads, schema-checks, and builds a configuration document from a
// YAML file.
func Load(path string) (*Image, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, &MalformedInputError{Path: path, Cause: err}
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, &MalformedInputError{Path: path, Cause: err}
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	img, err := LoadFromReader(file)
	if err != nil {
		var malformed *MalformedInputError
		if errors.As(err, &malformed) && malformed.Path == "" {
			malformed.Path = path
		}
		return nil, err
	}
	return img, nil
}

// LoadFromReader reads a configuration document from an io.Reader. The
// document passes three gates before semantic validation: JSON Schema
// structural validation, strict field decoding, and the schema_version
// constraint.
func LoadFromReader(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &MalformedInputError{Cause: err}
	}

	if err := validateSchema(data); err != nil {
		return nil, &MalformedInputError{Cause: err}
	}

	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict parsing - reject unknown fields
	if err := decoder.Decode(&doc); err != nil {
		return nil, &MalformedInputError{Cause: fmt.Errorf("failed to decode document: %w", err)}
	}

	if err := checkSchemaVersion(doc.Image.SchemaVersion); err != nil {
		return nil, &MalformedInputError{Cause: err}
	}

	img, err := doc.Build()
	if err != nil {
		return nil, &MalformedInputError{Cause: err}
	}
	return img, nil
}

// checkSchemaVersion gates the document format version against the range
// this build understands.
func checkSchemaVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("image.schema_version %q is not a semantic version: %w", version, err)
	}
	if !schemaConstraint.Check(v) {
		return fmt.Errorf("image.schema_version %s is outside the supported range %s (this build speaks %s)",
			v, schemaConstraint, SupportedSchema)
	}
	return nil
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}
