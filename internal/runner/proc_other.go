//go:build !unix

package runner

import (
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

func killGroup(p *os.Process) {
	if p == nil {
		return
	}
	_ = p.Kill() //nolint:errcheck
}

func signaledExitCode(*os.ProcessState) int { return 1 }
