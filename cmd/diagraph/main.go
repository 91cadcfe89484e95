package main

import "diagraph/internal/cli"

func main() {
	cli.Execute()
}
