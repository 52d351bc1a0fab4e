package main

import "github.com/lenses/backend/internal/interfaces/cli"

func main() {
	cli.Execute()
}
