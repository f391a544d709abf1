// Command gqa generates question/answer pairs over random transit graphs.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/gqa/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gqa:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
