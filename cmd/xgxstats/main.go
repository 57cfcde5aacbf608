// Command xgxstats prints equation histograms of traced programs.
//
//	xgxstats primitives prog.yaml
//	xgxstats by-source --config boundary.yaml prog.yaml other.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
