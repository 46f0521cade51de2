package main

import (
	"os"

	"antigravity2newapi/internal/cli"
)

func main() {
	if err := cli.NewConvertCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
