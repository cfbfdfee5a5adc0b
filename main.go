package main

import (
	"os"

	"mnavtracker/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
