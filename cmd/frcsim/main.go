package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/cli"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
)

func main() {
	logger := log.New(os.Stderr, "[frcsim] ", log.LstdFlags|log.Lmicroseconds)
	if err := cli.Execute(logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if simerr.IsConfig(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
