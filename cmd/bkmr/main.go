package main

import "github.com/nikbrunner/bkmr/internal/cli"

func main() {
	cli.Execute()
}
