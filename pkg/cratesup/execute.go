package cratesup

import "github.com/cratesup/cratesup/internal/cli"

// Execute runs the cratesup CLI entrypoint.
func Execute() int {
	return cli.Execute()
}
