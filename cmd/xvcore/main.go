package main

import (
	"fmt"
	"os"

	"github.com/arctir/xvcore/internal/cli"
)

func main() {
	root := cli.SetupCLI()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
