//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Builds every executable into ./bin
func Build() error {
	mg.Deps(BuildSimulate, BuildStripmap)
	fmt.Println("Compilation finished")
	return nil
}

// The simulation writes HDF5 files, so it needs cgo and the HDF5 flags
func BuildSimulate() error {
	fmt.Println("Building simulate executable...")
	return goCmd(true, "build", "-o", "./bin/simulate", "./simulate").Run()
}

func BuildStripmap() error {
	fmt.Println("Building stripmap executable...")
	return goCmd(false, "build", "-o", "./bin/stripmap", "./stripmap").Run()
}

// Runs the unit tests
func Test() error {
	fmt.Println("Running tests...")
	return goCmd(true, "test", "./...").Run()
}

func goCmd(cgo bool, args ...string) *exec.Cmd {
	cmd := exec.Command("go", args...)
	cmd.Env = os.Environ()
	if cgo {
		cmd.Env = append(cmd.Env,
			"CGO_ENABLED=1",
			fmt.Sprintf("CGO_LDFLAGS=%s", os.Getenv("CGO_LDFLAGS")),
			fmt.Sprintf("CGO_CFLAGS=%s", os.Getenv("CGO_CFLAGS")))
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
