package main

import "github.com/evento-labs/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
