package main

import (
	"fmt"
	"os"

	"github.com/Brownie44l1/modelclassify/internal/cli"
)

// server is shorthand for "modelclassify serve".
func main() {
	cmd := cli.NewRootCmd(os.Stdout)
	cmd.SetArgs(append([]string{"serve"}, os.Args[1:]...))

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
