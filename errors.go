package wf

import (
	"errors"
	"fmt"
)

var ErrUnnamedParameter = errors.New("output parameter has no name")

type PhaseError struct {
	Phase string
}

func (err PhaseError) Error() string {
	return fmt.Sprintf("unknown phase: %q", err.Phase)
}

type MissingParameterError struct {
	Name string
}

func (err MissingParameterError) Error() string {
	return fmt.Sprintf("expected parameter %q to be present", err.Name)
}

type ParameterTypeError struct {
	Name string
	Want string
}

func (err ParameterTypeError) Error() string {
	return fmt.Sprintf("expected parameter %q to be a %s", err.Name, err.Want)
}

type MissingArtifactError struct {
	Name string
}

func (err MissingArtifactError) Error() string {
	return fmt.Sprintf("artifact %q not present but required", err.Name)
}

// ArtifactError reports an artifact whose path cannot be used.
type ArtifactError struct {
	Name   string
	Path   string
	Reason string
}

func (err ArtifactError) Error() string {
	if err.Name == "" {
		return fmt.Sprintf("artifact path %q: %s", err.Path, err.Reason)
	}

	return fmt.Sprintf("artifact %q (path %q): %s", err.Name, err.Path, err.Reason)
}
