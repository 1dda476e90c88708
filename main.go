package main

import (
	"github.com/luma/meteo/cmd"
)

func main() {
	cmd.Execute()
}
