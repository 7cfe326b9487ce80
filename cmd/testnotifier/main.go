package main

import (
	"os"

	"github.com/testnotifier/testnotifier/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
