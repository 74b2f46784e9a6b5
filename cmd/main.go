package main

import (
	"github.com/minichain/minichain/cmd/commands"
)

func main() {
	commands.Execute()
}
