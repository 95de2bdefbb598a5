package main

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/guest"
)

func TestRun(t *testing.T) {
	t.Parallel()

	a, err := wf.NewParameter("a", 1)
	require.NoError(t, err)
	b, err := wf.NewParameter("b", "two")
	require.NoError(t, err)

	res, err := run(context.Background(), wf.Invocation{
		Parameters: []wf.Parameter{a, b},
	}, guest.Artifacts{})
	require.NoError(t, err)
	require.Equal(t, wf.Succeeded, res.Phase)
	require.Equal(t, "Success, have 2 parameters", res.Message)
}

func TestRunInWorkDir(t *testing.T) {
	t.Parallel()

	wd := guest.WorkDir(t.TempDir())
	input, err := json.Marshal(wf.Invocation{WorkflowName: "dummy"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(wd.InputPath(), input, 0o644))

	require.NoError(t, guest.Run(context.Background(), wd, guest.PluginFunc(run)))

	b, err := os.ReadFile(wd.ResultPath())
	require.NoError(t, err)
	require.Equal(t,
		`{"phase":"Succeeded","message":"Success, have 0 parameters","outputs":{"artifacts":[],"parameters":[]}}`+"\n",
		string(b))
}
