// Command restbind calls REST endpoints declared in a YAML config file.
package main

import (
	"github.com/s0up4200/restbind/cmd"
)

// Set through -ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)
	cmd.Execute()
}
