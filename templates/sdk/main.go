//go:generate env GOOS=wasip1 GOARCH=wasm go build -o main.wasm .

package main

import (
	"context"
	"fmt"

	wf "github.com/wasm-workflows/go"
	"github.com/wasm-workflows/go/guest"
)

func main() {
	guest.Main(guest.PluginFunc(run))
}

func run(ctx context.Context, inv wf.Invocation, _ guest.Artifacts) (wf.Result, error) {
	return wf.Success(fmt.Sprintf("Success, have %d parameters", len(inv.Parameters))), nil
}
