package main

import (
	"os"

	aiscorecmder "github.com/papercomputeco/aiscore/cmd/aiscore"
)

func main() {
	cmd := aiscorecmder.NewAIScoreCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
