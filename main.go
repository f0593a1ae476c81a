package main

import "primekg/kgx/cmd"

func main() {
	cmd.Execute()
}
