package main

import "github.com/winmcp/winmcp/cmd"

func main() {
	cmd.Execute()
}
