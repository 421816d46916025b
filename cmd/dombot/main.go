package main

import "github.com/mcoot/dombot/internal/cli"

func main() {
	cli.Execute()
}
