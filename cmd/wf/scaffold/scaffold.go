package scaffold

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/blang/semver/v4"
	"github.com/urfave/cli/v2"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/templates"
	"github.com/wasm-workflows/go/util"
)

// SDKModule is the import path scaffolded projects depend on.
const SDKModule = "github.com/wasm-workflows/go"

func Command() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "scaffold a new plugin project",
		ArgsUsage: "<dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   fmt.Sprintf("plugin skeleton, one of %v", templates.Names()),
				Value:   templates.Default,
			},
			&cli.StringFlag{
				Name:  "module",
				Usage: "module path of the new project (default: example.com/<dir>)",
			},
			&cli.StringFlag{
				Name:    "sdk-version",
				Usage:   "SDK version to require",
				Value:   wf.Version,
				EnvVars: []string{"WF_SDK_VERSION"},
			},
		},
		Action: scaffold,
	}
}

func scaffold(c *cli.Context) error {
	if !c.Args().Present() {
		return fmt.Errorf("missing project directory")
	}

	dir, err := util.ExpandHome(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to expand project path: %w", err)
	}

	p := Project{
		Dir:        dir,
		Module:     c.String("module"),
		Template:   c.String("template"),
		SDKVersion: c.String("sdk-version"),
	}
	if err := p.Write(); err != nil {
		return err
	}

	slog.InfoContext(c.Context, "created plugin project",
		"dir", p.Dir,
		"template", p.Template)
	slog.InfoContext(c.Context, "next: go mod tidy && GOOS=wasip1 GOARCH=wasm go build -o plugin.wasm .")

	return nil
}

// Project describes a scaffolded plugin.
type Project struct {
	Dir        string
	Module     string // defaults to example.com/<base of Dir>
	Template   string
	SDKVersion string
}

var invalidModuleChars = regexp.MustCompile(`[^A-Za-z0-9._~/-]+`)

// Write the project files.  Existing files are never overwritten.
func (p Project) Write() error {
	src, err := templates.Source(p.Template)
	if err != nil {
		return err
	}

	gomod, err := p.GoMod()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create project directory %s: %w", p.Dir, err)
	}

	files := []struct {
		name string
		body []byte
	}{
		{name: "go.mod", body: gomod},
		{name: "main.go", body: src},
	}

	for _, f := range files {
		path := filepath.Join(p.Dir, f.name)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite %s", path)
		}
	}

	for _, f := range files {
		path := filepath.Join(p.Dir, f.name)
		if err := os.WriteFile(path, f.body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	return nil
}

// GoMod renders the go.mod of the project.
func (p Project) GoMod() ([]byte, error) {
	v, err := semver.ParseTolerant(p.SDKVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid SDK version %q: %w", p.SDKVersion, err)
	}

	module := p.Module
	if module == "" {
		base := invalidModuleChars.ReplaceAllString(filepath.Base(filepath.Clean(p.Dir)), "-")
		module = "example.com/" + base
	}

	return []byte(fmt.Sprintf("module %s\n\ngo 1.24\n\nrequire %s v%s\n",
		module, SDKModule, v)), nil
}
