package run

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/util"
)

// EnvPrefix selects environment variables that override scalar
// invocation fields.  Only WF_INVOCATION_WORKFLOW_NAME is recognized.
const EnvPrefix = "WF_INVOCATION_"

// DefaultWorkflow is used when neither the invocation file nor the
// flags name a workflow.
const DefaultWorkflow = "dummy"

// LoadInvocation reads an invocation from a YAML or JSON file, then
// applies overrides from the environment.  An empty path yields an
// invocation built from the environment alone.
func LoadInvocation(path string) (inv wf.Invocation, err error) {
	k := koanf.New(".")

	if path != "" {
		if err = k.Load(file.Provider(path), parser(path)); err != nil {
			return inv, fmt.Errorf("failed to load invocation %s: %w", path, err)
		}
	}

	if err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		if key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix)); key == "workflow_name" {
			return key
		}
		return "" // skipped
	}), nil); err != nil {
		return inv, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Parameter values are arbitrary JSON, so go through the encoder
	// instead of koanf's struct decoding.
	b, err := json.Marshal(k.Raw())
	if err != nil {
		return inv, err
	}

	if err = json.Unmarshal(b, &inv); err != nil {
		return inv, fmt.Errorf("invalid invocation %s: %w", path, err)
	}

	return inv, nil
}

func parser(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return jsonParser{JSON: kjson.Parser()}
	}
}

// jsonParser keeps numbers as json.Number so that parameter values
// reach the plugin with their original precision.
type jsonParser struct {
	*kjson.JSON
}

func (jsonParser) Unmarshal(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}

	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}

	return out, nil
}

// ParseParameter parses a NAME=VALUE flag.  VALUE is taken as JSON if
// it is valid JSON, and as a bare string otherwise.
func ParseParameter(s string) (wf.Parameter, error) {
	name, value, err := util.SplitAssignment(s)
	if err != nil {
		return wf.Parameter{}, err
	}

	if value != "" && json.Valid([]byte(value)) {
		return wf.Parameter{Name: name, Value: json.RawMessage(value)}, nil
	}

	return wf.NewParameter(name, value)
}

func ParseParameters(args []string) ([]wf.Parameter, error) {
	ps := make([]wf.Parameter, 0, len(args))
	for _, arg := range args {
		p, err := ParseParameter(arg)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}

	return ps, nil
}

// Input is a local file to be staged as an input artifact.
type Input struct {
	Artifact wf.Artifact
	Source   string
}

// ParseInput parses a NAME=PATH flag.  The artifact is staged under
// its name.
func ParseInput(s string) (Input, error) {
	name, source, err := util.SplitAssignment(s)
	if err != nil {
		return Input{}, err
	}

	if source == "" {
		return Input{}, fmt.Errorf("artifact %q: missing source path", name)
	}

	source, err = util.ExpandHome(source)
	return Input{
		Artifact: wf.Artifact{Name: name, Path: name},
		Source:   source,
	}, err
}

// Merge flag-provided parameters, options and artifacts into inv.
// Flags replace entries of the same name and append the rest.  Of
// several inputs with one name, only the last is staged.  An
// input replacing an artifact from the invocation file keeps that
// artifact's path, so the returned inputs may differ from the ones
// passed in.
func Merge(inv wf.Invocation, params, opts []wf.Parameter, inputs []Input) (wf.Invocation, []Input) {
	inv.Parameters = mergeParams(inv.Parameters, params)
	inv.PluginOptions = mergeParams(inv.PluginOptions, opts)

	staged := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if i := indexArtifact(inv.Artifacts, in.Artifact.Name); i >= 0 {
			if path := inv.Artifacts[i].Path; path != "" {
				in.Artifact.Path = path
			}
			inv.Artifacts[i] = in.Artifact
		} else {
			inv.Artifacts = append(inv.Artifacts, in.Artifact)
		}

		// the last flag for a name wins
		if i := indexInput(staged, in.Artifact.Name); i >= 0 {
			staged[i] = in
		} else {
			staged = append(staged, in)
		}
	}

	if inv.WorkflowName == "" {
		inv.WorkflowName = DefaultWorkflow
	}

	return inv, staged
}

func mergeParams(base, override []wf.Parameter) []wf.Parameter {
	for _, p := range override {
		if i := indexParam(base, p.Name); i >= 0 {
			base[i] = p
		} else {
			base = append(base, p)
		}
	}

	return base
}

func indexParam(ps []wf.Parameter, name string) int {
	for i, p := range ps {
		if p.Name == name {
			return i
		}
	}

	return -1
}

func indexArtifact(as []wf.Artifact, name string) int {
	for i, a := range as {
		if a.Name == name {
			return i
		}
	}

	return -1
}

func indexInput(ins []Input, name string) int {
	for i, in := range ins {
		if in.Artifact.Name == name {
			return i
		}
	}

	return -1
}
