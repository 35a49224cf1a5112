package main

import (
	"os"

	"github.com/roarinpenguin/jarvis-coding-sub000/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
