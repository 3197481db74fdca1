package main

import "github.com/vietddude/tokensend/internal/cli"

func main() {
	cli.Execute()
}
