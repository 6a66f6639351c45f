package main

import "github.com/OVGULIU/pyiga/cmd"

func main() {
	cmd.Execute()
}
