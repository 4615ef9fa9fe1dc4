package main

import "github.com/diogo/chatty/internal/commands"

func main() {
	commands.Execute()
}
