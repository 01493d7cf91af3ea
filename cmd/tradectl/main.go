package main

import "github.com/dukerupert/tradedesk/internal/cmd"

func main() {
	cmd.Execute()
}
