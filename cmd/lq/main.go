package main

import "levelquest/cmd/lq/root"

func main() {
	root.Execute()
}
