package main

import "github.com/jt05610/syringe/cmd/syringe/cmd"

func main() {
	cmd.Execute()
}
