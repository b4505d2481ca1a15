package main

import "github.com/Mohsinsiddi/stewsale/cmd"

func main() {
	cmd.Execute()
}
