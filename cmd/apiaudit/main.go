package main

import (
	"github.com/NVIDIA/apiaudit/pkg/cli"
)

func main() {
	cli.Execute()
}
