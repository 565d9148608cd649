// Copyright © 2024 Deep Origin

package main

import (
	"github.com/deeporigin/deeporigin/cmd/deep-origin/cmd"
)

func main() {
	cmd.Execute()
}
