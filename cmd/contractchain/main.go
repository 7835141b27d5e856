package main

import (
	"github.com/nmxmxh/contractchain/internal/cli"
)

func main() {
	cli.Execute()
}
