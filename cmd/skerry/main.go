package main

import "skerry/internal/cli"

func main() {
	cli.Execute()
}
