package main

import "nearby-places/cmd"

func main() {
	cmd.Execute()
}
