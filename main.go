package main

import "tgi-tools/cmd"

func main() {
	cmd.Execute()
}
