package main

import (
	"fmt"
	"os"

	"github.com/joemans3/TandemLaunch-Scouting-DB/app"
)

func main() {
	// setup and run app
	if err := app.SetupAndRunServer(); err != nil {
		fmt.Fprintln(os.Stderr, "server error:", err)
		os.Exit(1)
	}
}
