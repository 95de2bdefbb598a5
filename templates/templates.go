// Package templates embeds the plugin skeletons used by `wf init`.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed minimal/main.go sdk/main.go
var sources embed.FS

// Default template name.
const Default = "minimal"

// Names of the available templates, sorted.
func Names() []string {
	entries, err := fs.ReadDir(sources, ".")
	if err != nil {
		panic(err) // embedded
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	return names
}

// Source returns the main.go of the named template.
func Source(name string) ([]byte, error) {
	b, err := fs.ReadFile(sources, name+"/main.go")
	if err != nil {
		return nil, fmt.Errorf("unknown template %q (have %v)", name, Names())
	}

	return b, nil
}
