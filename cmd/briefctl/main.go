// briefctl is the operator entry point for the daily executive-briefing
// pipeline: one-shot runs, unattended verification, the scheduler contract,
// and the long-running scheduled mode.
package main

import "os"

func main() {
	os.Exit(Execute())
}
