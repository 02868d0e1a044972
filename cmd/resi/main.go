package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	cliadapter "github.com/example/resi/internal/adapters/cli"
	"github.com/example/resi/internal/cli"
	"github.com/example/resi/internal/wire"
)

func main() {
	if err := cli.Execute(cli.RootCmd(), wire.Close); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("✗ ")+cliadapter.UserMessage(err))
		os.Exit(1)
	}
}
