package main

import "github.com/RyanBlaney/sleep-spectra/cmd"

func main() {
	cmd.Execute()
}
