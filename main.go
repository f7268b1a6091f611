package main

import "github.com/Mohsinsiddi/poapmint/cmd"

func main() {
	cmd.Execute()
}
