package main

import "github.com/MurthyAvanithsa/railview/cmd"

func main() {
	cmd.Execute()
}
