package main

import (
	"mlbstats/cmd/mlbstats/commands"
	"mlbstats/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
