package main

import "github.com/xvierd/breakr/cmd"

func main() {
	cmd.Execute()
}
