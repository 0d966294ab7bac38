package main

import "github.com/dt-pm-tools/jsm-panel/cmd"

func main() {
	cmd.Execute()
}
