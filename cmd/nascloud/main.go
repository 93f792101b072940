package main

import "github.com/TheGhoul27/NAS-Cloud/internal/cli"

func main() {
	cli.Execute()
}
