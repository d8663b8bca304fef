package main

import "github.com/Hunteraulo1/f95-france/internal/cli"

func main() {
	cli.Execute()
}
