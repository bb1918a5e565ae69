package main

import "github.com/lepinkainen/calliope/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
