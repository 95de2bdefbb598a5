package wf

import (
	"encoding/json"
	"os"
)

// Version of the plugin SDK.  Scaffolded projects require this
// version unless told otherwise.
const Version = "0.1.0"

// Layout of the working directory that the host preopens for a
// plugin.  Artifact directories are relative to WorkingDir.
const (
	WorkingDir         = "/work"
	InputFile          = "input.json"
	ResultFile         = "result.json"
	InputArtifactsDir  = "artifacts/in"
	OutputArtifactsDir = "artifacts/out"
)

// EnvWorkingDir overrides WorkingDir, so that a plugin built for the
// host platform can run against an ordinary directory.
const EnvWorkingDir = "WF_WORKING_DIR"

// DefaultWorkingDir returns the value of $WF_WORKING_DIR, or
// WorkingDir if it is unset.
func DefaultWorkingDir() string {
	if dir := os.Getenv(EnvWorkingDir); dir != "" {
		return dir
	}

	return WorkingDir
}

// Phase is the terminal state of a plugin run.
type Phase string

const (
	Succeeded Phase = "Succeeded"
	Failed    Phase = "Failed"
)

func ParsePhase(s string) (Phase, error) {
	switch p := Phase(s); p {
	case Succeeded, Failed:
		return p, nil
	default:
		return "", PhaseError{Phase: s}
	}
}

func (p Phase) String() string {
	return string(p)
}

func (p Phase) MarshalText() ([]byte, error) {
	if _, err := ParsePhase(string(p)); err != nil {
		return nil, err
	}

	return []byte(p), nil
}

func (p *Phase) UnmarshalText(b []byte) (err error) {
	*p, err = ParsePhase(string(b))
	return
}

// Parameter is a named value.  The value is arbitrary JSON.
type Parameter struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// NewParameter encodes v as JSON and binds it to name.
func NewParameter(name string, v any) (Parameter, error) {
	value, err := json.Marshal(v)
	return Parameter{Name: name, Value: value}, err
}

// Decode the parameter value into v.
func (p Parameter) Decode(v any) error {
	if len(p.Value) == 0 {
		return MissingParameterError{Name: p.Name}
	}

	return json.Unmarshal(p.Value, v)
}

// AsString returns the value of a parameter holding a JSON string.
// A null value is not a string.
func (p Parameter) AsString() (string, error) {
	if len(p.Value) == 0 {
		return "", MissingParameterError{Name: p.Name}
	}

	var s *string
	if err := json.Unmarshal(p.Value, &s); err != nil || s == nil {
		return "", ParameterTypeError{Name: p.Name, Want: "string"}
	}

	return *s, nil
}

type S3Artifact struct {
	Key string `json:"key"`
}

// Artifact is a file exchanged with the host.  Path is relative to
// the input or output artifact directory.
type Artifact struct {
	Name string      `json:"name"`
	Path string      `json:"path"`
	S3   *S3Artifact `json:"s3,omitempty"`
}

type Outputs struct {
	Artifacts  []Artifact  `json:"artifacts"`
	Parameters []Parameter `json:"parameters"`
}

// MarshalJSON encodes nil slices as empty arrays.  The host expects
// both keys to hold arrays.
func (o Outputs) MarshalJSON() ([]byte, error) {
	type outputs Outputs

	out := outputs(o)
	if out.Artifacts == nil {
		out.Artifacts = []Artifact{}
	}
	if out.Parameters == nil {
		out.Parameters = []Parameter{}
	}

	return json.Marshal(out)
}

// Result is written by the plugin to ResultFile before it exits.
type Result struct {
	Phase   Phase   `json:"phase"`
	Message string  `json:"message"`
	Outputs Outputs `json:"outputs"`
}

// Success returns a Succeeded result carrying params as its output.
func Success(message string, params ...Parameter) Result {
	return Result{
		Phase:   Succeeded,
		Message: message,
		Outputs: Outputs{Parameters: params},
	}
}

// Failure returns a Failed result whose message is the error text.
func Failure(err error) Result {
	return Result{
		Phase:   Failed,
		Message: err.Error(),
	}
}

// Validate reports whether the result can be handed to the host.
func (r Result) Validate() error {
	if _, err := ParsePhase(string(r.Phase)); err != nil {
		return err
	}

	for _, a := range r.Outputs.Artifacts {
		if a.Name == "" {
			return ArtifactError{Path: a.Path, Reason: "missing name"}
		}
	}

	for _, p := range r.Outputs.Parameters {
		if p.Name == "" {
			return ErrUnnamedParameter
		}

		if p.Value != nil && !json.Valid(p.Value) {
			return ParameterTypeError{Name: p.Name, Want: "JSON value"}
		}
	}

	return nil
}

// Invocation is written by the host to InputFile before the plugin
// starts.
type Invocation struct {
	WorkflowName  string      `json:"workflow_name"`
	PluginOptions []Parameter `json:"plugin_options"`
	Parameters    []Parameter `json:"parameters"`
	Artifacts     []Artifact  `json:"artifacts"`
}

// MarshalJSON encodes nil slices as empty arrays.
func (inv Invocation) MarshalJSON() ([]byte, error) {
	type invocation Invocation

	out := invocation(inv)
	if out.PluginOptions == nil {
		out.PluginOptions = []Parameter{}
	}
	if out.Parameters == nil {
		out.Parameters = []Parameter{}
	}
	if out.Artifacts == nil {
		out.Artifacts = []Artifact{}
	}

	return json.Marshal(out)
}

// Parameter returns the first parameter with the given name.
func (inv Invocation) Parameter(name string) (Parameter, error) {
	if p, ok := lookup(inv.Parameters, name); ok {
		return p, nil
	}

	return Parameter{}, MissingParameterError{Name: name}
}

// PluginOption returns the first plugin option with the given name.
func (inv Invocation) PluginOption(name string) (Parameter, error) {
	if p, ok := lookup(inv.PluginOptions, name); ok {
		return p, nil
	}

	return Parameter{}, MissingParameterError{Name: name}
}

// Artifact returns the first input artifact with the given name.
func (inv Invocation) Artifact(name string) (Artifact, error) {
	for _, a := range inv.Artifacts {
		if a.Name == name {
			return a, nil
		}
	}

	return Artifact{}, MissingArtifactError{Name: name}
}

func lookup(ps []Parameter, name string) (Parameter, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}

	return Parameter{}, false
}
