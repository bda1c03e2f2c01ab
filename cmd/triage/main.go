package main

import (
	"context"
	"io"
	"os"

	"github.com/EchoingVesper/vespera-atelier-sub001/internal/app"
	"github.com/EchoingVesper/vespera-atelier-sub001/internal/cli"
)

var exitFunc = os.Exit

func run(args []string, out io.Writer, errOut io.Writer) int {
	runner := app.New()
	commandLine := cli.New(runner, out, errOut)
	return commandLine.Run(context.Background(), args)
}

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}
