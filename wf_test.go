package wf_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	wf "github.com/wasm-workflows/go"
)

func TestResult_Encoding(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(wf.Success("Hello"))
	require.NoError(t, err)
	require.Equal(t,
		`{"phase":"Succeeded","message":"Hello","outputs":{"artifacts":[],"parameters":[]}}`,
		string(b))
}

func TestResult_Failure(t *testing.T) {
	t.Parallel()

	res := wf.Failure(errors.New("boom"))
	require.Equal(t, wf.Failed, res.Phase)
	require.Equal(t, "boom", res.Message)
	require.NoError(t, res.Validate())

	b, err := json.Marshal(res)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"phase":"Failed","message":"boom","outputs":{"artifacts":[],"parameters":[]}}`,
		string(b))
}

func TestResult_WithOutputs(t *testing.T) {
	t.Parallel()

	param, err := wf.NewParameter("count", 2342)
	require.NoError(t, err)

	res := wf.Success("done", param)
	res.Outputs.Artifacts = []wf.Artifact{{Name: "image", Path: "out.png"}}

	b, err := json.Marshal(res)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"phase": "Succeeded",
		"message": "done",
		"outputs": {
			"artifacts": [{"name": "image", "path": "out.png"}],
			"parameters": [{"name": "count", "value": 2342}]
		}
	}`, string(b))
}

func TestResult_Validate(t *testing.T) {
	t.Parallel()

	var zero wf.Result
	err := zero.Validate()
	require.ErrorAs(t, err, &wf.PhaseError{})

	_, err = json.Marshal(zero)
	require.Error(t, err, "zero phase must not be encoded")

	res := wf.Success("ok")
	res.Outputs.Parameters = []wf.Parameter{{Value: json.RawMessage(`1`)}}
	require.ErrorIs(t, res.Validate(), wf.ErrUnnamedParameter)

	res = wf.Success("ok")
	res.Outputs.Artifacts = []wf.Artifact{{Path: "x"}}
	require.ErrorAs(t, res.Validate(), &wf.ArtifactError{})

	res = wf.Success("ok", wf.Parameter{Name: "p", Value: json.RawMessage("not json")})
	require.EqualError(t, res.Validate(), `expected parameter "p" to be a JSON value`)

	res = wf.Success("ok", wf.Parameter{Name: "p", Value: json.RawMessage{}})
	require.ErrorAs(t, res.Validate(), &wf.ParameterTypeError{})

	res = wf.Success("ok", wf.Parameter{Name: "p"})
	require.NoError(t, res.Validate(), "nil value encodes as null")
}

func TestParameter_AsString(t *testing.T) {
	t.Parallel()

	s, err := wf.Parameter{Name: "text", Value: json.RawMessage(`"hi"`)}.AsString()
	require.NoError(t, err)
	require.Equal(t, "hi", s)

	_, err = wf.Parameter{Name: "text"}.AsString()
	require.ErrorAs(t, err, &wf.MissingParameterError{})

	_, err = wf.Parameter{Name: "text", Value: json.RawMessage(`null`)}.AsString()
	require.EqualError(t, err, `expected parameter "text" to be a string`)

	_, err = wf.Parameter{Name: "text", Value: json.RawMessage(`42`)}.AsString()
	require.ErrorAs(t, err, &wf.ParameterTypeError{})
}

func TestParsePhase(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		in   string
		want wf.Phase
		fail bool
	}{
		{in: "Succeeded", want: wf.Succeeded},
		{in: "Failed", want: wf.Failed},
		{in: "succeeded", fail: true},
		{in: "Running", fail: true},
		{in: "", fail: true},
	} {
		got, err := wf.ParsePhase(tt.in)
		if tt.fail {
			var perr wf.PhaseError
			require.ErrorAs(t, err, &perr, tt.in)
			assert.Equal(t, tt.in, perr.Phase)
			continue
		}

		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestResult_DecodeRejectsUnknownPhase(t *testing.T) {
	t.Parallel()

	var res wf.Result
	err := json.Unmarshal([]byte(`{"phase":"Pending","message":""}`), &res)
	require.ErrorAs(t, err, &wf.PhaseError{})
}

func TestInvocation(t *testing.T) {
	t.Parallel()

	const input = `{
		"workflow_name": "hello-world",
		"plugin_options": [{"name": "timeout", "value": 30}],
		"parameters": [
			{"name": "text", "value": "ferris"},
			{"name": "size", "value": {"w": 1, "h": 2}}
		],
		"artifacts": [{"name": "input", "path": "input.png", "s3": {"key": "a/b"}}]
	}`

	var inv wf.Invocation
	require.NoError(t, json.Unmarshal([]byte(input), &inv))
	require.Equal(t, "hello-world", inv.WorkflowName)

	p, err := inv.Parameter("text")
	require.NoError(t, err)
	text, err := p.AsString()
	require.NoError(t, err)
	require.Equal(t, "ferris", text)

	p, err = inv.Parameter("size")
	require.NoError(t, err)
	_, err = p.AsString()
	require.EqualError(t, err, `expected parameter "size" to be a string`)

	var size struct{ W, H int }
	require.NoError(t, p.Decode(&size))
	require.Equal(t, 2, size.H)

	opt, err := inv.PluginOption("timeout")
	require.NoError(t, err)
	require.JSONEq(t, `30`, string(opt.Value))

	_, err = inv.Parameter("missing")
	require.EqualError(t, err, `expected parameter "missing" to be present`)

	a, err := inv.Artifact("input")
	require.NoError(t, err)
	require.Equal(t, "a/b", a.S3.Key)

	_, err = inv.Artifact("watermark")
	require.ErrorAs(t, err, &wf.MissingArtifactError{})
}

func TestInvocation_EncodesEmptyArrays(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(wf.Invocation{WorkflowName: "dummy"})
	require.NoError(t, err)
	require.JSONEq(t,
		`{"workflow_name":"dummy","plugin_options":[],"parameters":[],"artifacts":[]}`,
		string(b))
}

func TestDefaultWorkingDir(t *testing.T) {
	t.Setenv(wf.EnvWorkingDir, "")
	require.Equal(t, "/work", wf.DefaultWorkingDir())

	t.Setenv(wf.EnvWorkingDir, "/tmp/plugin")
	require.Equal(t, "/tmp/plugin", wf.DefaultWorkingDir())
}
