package main

import (
	"fmt"
	"os"

	"github.com/omniorder/omniorder/internal/app"
	"github.com/omniorder/omniorder/internal/cli"
)

func main() {
	if app.InTestMode() {
		return
	}
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
