// Package main is the entry point for pgedge-starbuild.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pgEdge/pgedge-starbuild/internal/cli"
)

func main() {
	// Credentials for the database and S3 outputs may come from a local .env.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
