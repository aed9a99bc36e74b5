package main

import "github.com/Sherolroses/Transport/cmd/smartroute/commands"

func main() {
	commands.Execute()
}
