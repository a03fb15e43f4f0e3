package main

import "rostercore/internal/cli"

func main() {
	cli.Execute()
}
