package main

import (
	"context"

	"github.com/Nadirh/retirement-planning/cmd/common"
	"github.com/Nadirh/retirement-planning/cmd/retirement-sim/cli"
)

func main() {
	common.ExitOnError(cli.NewRootCommand().ExecuteContext(context.Background()))
}
