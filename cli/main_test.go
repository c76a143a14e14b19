package main

import (
	"testing"
)

func TestCLIVersion(t *testing.T) {
	e := newExecutor(t)
	e.Run(t, "sirius-go", "--version")
	e.checkNextLine(t, "^SiriusGo$")
	e.checkNextLine(t, "^Version: ")
	e.checkNextLine(t, "^GoVersion: ")
	e.checkEOF(t)
}
