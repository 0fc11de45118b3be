package main

import "github.com/jcdickinson/soldoc/cmd"

func main() {
	cmd.Execute()
}
