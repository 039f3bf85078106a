package main

import "github.com/robalobadob/yams/cmd"

func main() {
	cmd.Execute()
}
