package main

import "github.com/llehouerou/tempo/internal/cli"

func main() {
	cli.Execute()
}
