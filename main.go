// Command dirtree prints a directory tree and reports statistics about it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/dirtree/internal/cli"
)

// version is set at build time.
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.New(version).Command().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
