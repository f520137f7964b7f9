package main

import "github.com/mcoot/knockout/internal/cli"

func main() {
	cli.Execute()
}
