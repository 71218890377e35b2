package main

import "github.com/rook-computer/weatherdeck/internal/cli"

func main() {
	cli.Execute()
}
