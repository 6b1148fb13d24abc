package main

import (
	"github.com/cameronsjo/mooring/internal/cmd"
)

func main() {
	cmd.Execute()
}
