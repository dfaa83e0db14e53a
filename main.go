package main

import "go-browser-topsites/cmd"

func main() {
	cmd.Execute()
}
