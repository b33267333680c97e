package main

import "github.com/joemans3/TandemLaunch-Scouting-DB/cmd/scouting/cli"

func main() {
	cli.Execute()
}
