package main

import "mm1calc/cmd"

func main() {
	cmd.Execute()
}
