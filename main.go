package main

import "github.com/KaramelBytes/rasff-lens/cmd"

func main() {
	cmd.Execute()
}
