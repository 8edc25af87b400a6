package main

import "github.com/mgy583/account-book/cmd"

func main() {
	cmd.Execute()
}
