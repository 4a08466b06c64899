// Package commands provides ready-made typed commands for tool-use
// pipelines: echo, calc, and glob.
package commands

import "github.com/batonkit/baton"

// must panics when a command constructor fails. The commands in this
// package derive their schemas from static types, so a failure here is a
// programmer error, not a runtime condition.
func must(cmd baton.Command, err error) baton.Command {
	if err != nil {
		panic(err)
	}
	return cmd
}
