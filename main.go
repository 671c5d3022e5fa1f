package main

import "filterlab/cmd"

func main() {
	cmd.Execute()
}
