package main

import (
	"fmt"
	"os"

	"github.com/gragra33/blazing-mediator/internal/adapters/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
