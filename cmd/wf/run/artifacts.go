package run

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/guest"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Stage copies local files into the input artifact directory.
func Stage(ctx context.Context, a guest.Artifacts, inputs []Input) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, in := range inputs {
		g.Go(func() error {
			dst, err := a.InputPath(in.Artifact)
			if err != nil {
				return err
			}

			if err := copyFile(ctx, dst, in.Source); err != nil {
				return fmt.Errorf("failed to stage artifact %q: %w", in.Artifact.Name, err)
			}

			return nil
		})
	}

	return g.Wait()
}

// Collect copies output artifacts to dir.  An artifact is collected if
// the result names it, or if its path relative to the output artifact
// directory matches one of patterns.  It returns the collected paths,
// relative to dir.
func Collect(ctx context.Context, a guest.Artifacts, res wf.Result, patterns []string, dir string) ([]string, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	set := make(map[string]struct{})
	for _, art := range res.Outputs.Artifacts {
		rel, err := guest.ArtifactPath(art)
		if err != nil {
			return nil, err
		}
		set[rel] = struct{}{}
	}

	root := a.Root.Path(wf.OutputArtifactsDir)
	if len(globs) > 0 {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}

			rel = filepath.ToSlash(rel)
			for _, g := range globs {
				if g.Match(rel) {
					set[rel] = struct{}{}
					break
				}
			}

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	collected := make([]string, 0, len(set))
	for rel := range set {
		collected = append(collected, rel)
	}
	sort.Strings(collected)

	g, ctx := errgroup.WithContext(ctx)
	for _, rel := range collected {
		g.Go(func() error {
			src := filepath.Join(root, filepath.FromSlash(rel))
			dst := filepath.Join(dir, filepath.FromSlash(rel))
			if err := copyFile(ctx, dst, src); err != nil {
				return fmt.Errorf("failed to collect artifact %s: %w", rel, err)
			}

			return nil
		})
	}

	return collected, g.Wait()
}

func copyFile(ctx context.Context, dst, src string) (err error) {
	if err = ctx.Err(); err != nil {
		return
	}

	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()

	if err = os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return
	}

	out, err := os.Create(dst)
	if err != nil {
		return
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	_, err = io.Copy(out, in)
	return
}
