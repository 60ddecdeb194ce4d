package main

import "inikeys/internal/cmd"

func main() {
	cmd.Execute()
}
