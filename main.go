// Command taskdeck is a terminal client and reference server for the Task API.
package main

import "github.com/twiced-technology-gmbh/taskdeck/cmd"

func main() {
	cmd.Execute()
}
