/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import "github.com/planwing/planwing/cmd"

func main() {
	cmd.Execute()
}
