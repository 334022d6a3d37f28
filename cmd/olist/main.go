package main

import "olistcli/internal/cli"

func main() {
	cli.Execute()
}
