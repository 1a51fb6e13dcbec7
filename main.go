package main

import "github.com/scatterbrainlabs/scatterbrain/cmd"

func main() {
	cmd.Execute()
}
