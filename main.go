package main

import "c3speakers/commands"

func main() {
	commands.Execute()
}
