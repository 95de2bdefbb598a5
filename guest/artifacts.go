package guest

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	wf "github.com/wasm-workflows/go"
)

// Artifacts resolves artifact files inside the working directory.
// Inputs are staged by the host before the plugin starts; outputs
// are picked up after it exits.
type Artifacts struct {
	Root WorkDir
}

func (a Artifacts) InputPath(art wf.Artifact) (string, error) {
	return a.resolve(wf.InputArtifactsDir, art)
}

func (a Artifacts) OutputPath(art wf.Artifact) (string, error) {
	return a.resolve(wf.OutputArtifactsDir, art)
}

// Open an input artifact for reading.
func (a Artifacts) Open(art wf.Artifact) (*os.File, error) {
	name, err := a.InputPath(art)
	if err != nil {
		return nil, err
	}

	return os.Open(name)
}

// Create an output artifact, along with any missing parent
// directories.
func (a Artifacts) Create(art wf.Artifact) (*os.File, error) {
	name, err := a.OutputPath(art)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, err
	}

	return os.Create(name)
}

func (a Artifacts) resolve(dir string, art wf.Artifact) (string, error) {
	rel, err := ArtifactPath(art)
	if err != nil {
		return "", err
	}

	return a.Root.Path(dir, filepath.FromSlash(rel)), nil
}

// ArtifactPath returns the slash-separated location of art relative
// to an artifact directory.  A leading slash is ignored.  Paths that
// would leave the directory are rejected.
func ArtifactPath(art wf.Artifact) (string, error) {
	p := art.Path
	if p == "" {
		p = art.Name
	}

	p = path.Clean(strings.TrimLeft(p, "/"))
	if !fs.ValidPath(p) || p == "." {
		return "", wf.ArtifactError{
			Name:   art.Name,
			Path:   art.Path,
			Reason: "invalid path",
		}
	}

	return p, nil
}
