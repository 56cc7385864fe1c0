package main

import "camp-hub-backend/cmd"

func main() {
	cmd.Run()
}
