// Command gravel is the CLI for the Gravel graph-of-values store.
package main

import "github.com/dukaforge/gravel/internal/cli"

func main() {
	cli.Execute()
}
