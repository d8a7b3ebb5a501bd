package main

import "skilllink/backend/cmd"

func main() {
	cmd.Execute()
}
