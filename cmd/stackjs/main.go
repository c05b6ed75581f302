// Command stackjs compiles a small arithmetic language to JavaScript.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/stackjs/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stackjs: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
