package main

import "github.com/idescope/idescope/cmd/idescope/commands"

func main() {
	commands.Execute()
}
