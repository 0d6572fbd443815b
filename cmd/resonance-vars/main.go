package main

import "resonance-vars/internal/cli"

func main() {
	cli.Execute()
}
