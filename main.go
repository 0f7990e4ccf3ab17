package main

import "github.com/quarklab/masspec/cmd"

func main() {
	cmd.Execute()
}
