package main

import "github.com/momentcut/momentcut/internal/cli"

func main() {
	cli.Main()
}
