package main

import "github.com/mcoot/vstetris/internal/cli"

func main() {
	cli.Execute()
}
