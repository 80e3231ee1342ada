package main

import "github.com/theirongolddev/mealbook/cmd"

func main() {
	cmd.Execute()
}
