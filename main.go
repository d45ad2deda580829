package main

import "github.com/cpatestos/bloomrn-app-esrvct/cmd"

func main() {
	cmd.Run()
}
