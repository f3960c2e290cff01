package main

import "github.com/LegacyCodeHQ/sourcedb/cmd"

func main() {
	cmd.Execute()
}
