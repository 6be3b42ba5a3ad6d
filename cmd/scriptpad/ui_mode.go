package main

import (
	"os"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	v, err := choice("ui", value, "auto", "on", "off")
	return uiMode(v), err
}

// shouldUseTUI decides whether `run` draws the progress view on out. Auto
// mode needs a terminal that can redraw in place.
func shouldUseTUI(mode uiMode, out *os.File) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return isTerminal(out) && os.Getenv("TERM") != "dumb"
}
