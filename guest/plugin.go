//go:generate mockgen -source=plugin.go -destination=mocks/mock_plugin.go -package=mocks

package guest

import (
	"context"

	wf "github.com/wasm-workflows/go"
)

// Plugin is the body of a workflow step.  A non-nil error is reported
// to the host as a Failed result; it does not abort the process.
type Plugin interface {
	Run(context.Context, wf.Invocation, Artifacts) (wf.Result, error)
}

// PluginFunc adapts an ordinary function to the Plugin interface.
type PluginFunc func(context.Context, wf.Invocation, Artifacts) (wf.Result, error)

func (f PluginFunc) Run(ctx context.Context, inv wf.Invocation, a Artifacts) (wf.Result, error) {
	return f(ctx, inv, a)
}
