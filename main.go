package main

import "github.com/KaramelBytes/dhsreport-cli/cmd"

func main() {
	cmd.Execute()
}
