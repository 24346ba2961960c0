package main

import "github.com/MeKo-Tech/qrnode/cmd/qrnode/cmd"

func main() {
	cmd.Execute()
}
