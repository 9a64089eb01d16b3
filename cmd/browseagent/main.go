// Command browseagent is an AI browser agent grounded in live web search.
package main

import "github.com/diogo/browseagent/internal/commands"

func main() {
	commands.Execute()
}
