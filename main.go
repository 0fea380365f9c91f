/*
Copyright © 2026 Paulo Suderio
*/
package main

import "github.com/suderio/warband/cmd"

func main() {
	cmd.Execute()
}
