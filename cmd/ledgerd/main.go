package main

import "github.com/ledgerkit/ledgerd/internal/cli"

func main() {
	cli.Execute()
}
