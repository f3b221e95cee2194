package main

import "streambox/cmd"

func main() {
	cmd.Execute()
}
