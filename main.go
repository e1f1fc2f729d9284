package main

import "github.com/oracle-feeder/voter/cmd"

func main() {
	cmd.Execute()
}
