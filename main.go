package main

import "github.com/jsren/godwarf/cmd/godwarf"

func main() {
	godwarf.Execute()
}
