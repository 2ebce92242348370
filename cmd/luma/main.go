package main

import "github.com/julianallchin/luma/internal/cmd"

func main() {
	cmd.Execute()
}
