package guest_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/guest"
)

func TestArtifactPath(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		art  wf.Artifact
		want string
	}{
		{art: wf.Artifact{Name: "input", Path: "input.png"}, want: "input.png"},
		{art: wf.Artifact{Name: "input", Path: "/images/input.png"}, want: "images/input.png"},
		{art: wf.Artifact{Name: "input", Path: "a/./b/../c"}, want: "a/c"},
		{art: wf.Artifact{Name: "watermark"}, want: "watermark"},
	} {
		got, err := guest.ArtifactPath(tt.art)
		require.NoError(t, err, tt.art.Path)
		require.Equal(t, tt.want, got)
	}

	for _, p := range []string{"../escape", "a/../../b", "/"} {
		_, err := guest.ArtifactPath(wf.Artifact{Name: "bad", Path: p})
		require.ErrorAs(t, err, &wf.ArtifactError{}, p)
	}
}

func TestArtifacts_RoundTrip(t *testing.T) {
	t.Parallel()

	wd := guest.WorkDir(t.TempDir())
	a := wd.Artifacts()

	in := wf.Artifact{Name: "input", Path: "input.txt"}
	inPath, err := a.InputPath(in)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(string(wd), "artifacts", "in", "input.txt"), inPath)

	require.NoError(t, os.MkdirAll(filepath.Dir(inPath), 0o755))
	require.NoError(t, os.WriteFile(inPath, []byte("ferris"), 0o644))

	f, err := a.Open(in)
	require.NoError(t, err)
	defer f.Close()

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, "ferris", string(b))

	out := wf.Artifact{Name: "output", Path: "nested/output.txt"}
	w, err := a.Create(out)
	require.NoError(t, err)
	_, err = w.WriteString("says")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	outPath, err := a.OutputPath(out)
	require.NoError(t, err)
	b, err = os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "says", string(b))
}
