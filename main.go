package main

import "github.com/entro314-labs/claudesweep/cmd"

func main() {
	cmd.Execute()
}
