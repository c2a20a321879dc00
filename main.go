package main

import (
	"os"

	"github.com/abhisek/octolearn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
