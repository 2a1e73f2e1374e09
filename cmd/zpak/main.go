package main

import "github.com/zpak-project/zpak/internal/cli"

func main() {
	cli.Execute()
}
