package main

import (
	"os"

	"github.com/zjrosen/deadlines/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
