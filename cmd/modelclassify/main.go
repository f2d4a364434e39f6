package main

import "github.com/Brownie44l1/modelclassify/internal/cli"

func main() {
	cli.Execute()
}
