package main

import "github.com/chrisuehlinger/domman/cmd"

func main() {
	cmd.Execute()
}
