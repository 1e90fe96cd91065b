package main

import "github.com/Tiliavir/autoclock/cmd"

func main() {
	cmd.Execute()
}
