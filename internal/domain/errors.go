package domain

import (
	"errors"
	"fmt"
)

// FailureKind classifies engine errors for the structured failure result the
// orchestrator returns to callers.
type FailureKind string

const (
	FailureNotFound      FailureKind = "not_found"
	FailureOutOfRange    FailureKind = "out_of_range"
	FailureCompliance    FailureKind = "compliance"
	FailureConfiguration FailureKind = "configuration"
	FailureInternal      FailureKind = "internal"
)

// NotFoundError reports a missing table entry or rule code. It is always
// fatal to the single calculation; callers must never substitute a neutral
// rate for a missing one.
type NotFoundError struct {
	Table string
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no entry for %q", e.Table, e.Key)
}

// OutOfRangeError reports an age, coverage, or term outside product or table
// bounds. Returned to the caller as a structured rejection.
type OutOfRangeError struct {
	Field string
	Value string
	Min   string
	Max   string
}

func (e *OutOfRangeError) Error() string {
	if e.Min != "" || e.Max != "" {
		return fmt.Sprintf("%s %s outside valid range %s-%s", e.Field, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("%s %s out of range", e.Field, e.Value)
}

// ComplianceError reports a regulatory check failure. The quote is flagged
// for actuarial review, never auto-approved.
type ComplianceError struct {
	Check   string
	Message string
}

func (e *ComplianceError) Error() string {
	return fmt.Sprintf("compliance check %s failed: %s", e.Check, e.Message)
}

// ConfigurationError reports malformed or missing table data at load time.
// Fatal at startup; the process must not serve requests with partially
// loaded tables.
type ConfigurationError struct {
	Source string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration %s: %s", e.Source, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ClassifyError maps an engine error onto its failure kind.
func ClassifyError(err error) FailureKind {
	var (
		notFound *NotFoundError
		outRange *OutOfRangeError
		comply   *ComplianceError
		config   *ConfigurationError
	)
	switch {
	case errors.As(err, &notFound):
		return FailureNotFound
	case errors.As(err, &outRange):
		return FailureOutOfRange
	case errors.As(err, &comply):
		return FailureCompliance
	case errors.As(err, &config):
		return FailureConfiguration
	default:
		return FailureInternal
	}
}

// Failure is the structured failure result surfaced at the orchestrator
// boundary instead of an unstructured fault.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// NewFailure builds a Failure from an engine error.
func NewFailure(err error) *Failure {
	return &Failure{Kind: ClassifyError(err), Message: err.Error()}
}
