package main

import "diagrammer/cmd/diagrammer-cli/cmd"

func main() {
	cmd.Execute()
}
