package main

import "github.com/fbz-tec/sqlitexport/cmd"

func main() {
	cmd.Execute()
}
