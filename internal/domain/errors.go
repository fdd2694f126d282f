package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration signals a provider that cannot run with its current setup.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrResolution signals a document that could not become a model.
	ErrResolution = errors.New("model resolution failed")
	// ErrKeyExtraction signals a model whose key could not be read.
	ErrKeyExtraction = errors.New("key extraction failed")
)

// ConfigurationError wraps ErrConfiguration with the offending setting.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration.Error(), e.Setting, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError creates a configuration error for setting.
func NewConfigurationError(setting, reason string) error {
	return &ConfigurationError{Setting: setting, Reason: reason}
}

// ResolutionError wraps ErrResolution with the document and model type involved.
// Type is empty when the type itself could not be determined.
type ResolutionError struct {
	DocumentID string
	Type       string
	Err        error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("%s: document %q", ErrResolution.Error(), e.DocumentID)
	if e.Type != "" {
		msg += fmt.Sprintf(" (type %q)", e.Type)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Err}
}

// KeyExtractionError wraps ErrKeyExtraction with the missing field and model position.
type KeyExtractionError struct {
	Field string
	Index int
}

func (e *KeyExtractionError) Error() string {
	return fmt.Sprintf("%s: model %d has no field %q", ErrKeyExtraction.Error(), e.Index, e.Field)
}

func (e *KeyExtractionError) Unwrap() error { return ErrKeyExtraction }
