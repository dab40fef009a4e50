package main

import "github.com/goosewin/shor/cmd"

func main() {
	cmd.Execute()
}
