package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"tcorea.dev/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
