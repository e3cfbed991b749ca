package main

import "github.com/syohex/gnu-apl-mode/cmd"

func main() {
	cmd.Execute()
}
