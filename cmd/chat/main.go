package main

import "github.com/chatmesh/chatd/internal/cli/cmd"

func main() {
	cmd.Execute()
}
