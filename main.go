package main

import "github.com/krishiguru/apiserver/cmd"

func main() {
	cmd.Execute()
}
