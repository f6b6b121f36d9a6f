//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test runs the full test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet over the module.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Build compiles the solvext binary into bin/.
func Build() error {
	return sh.RunV("go", "build", "-o", "bin/solvext", "./cmd/solvext")
}

// All lints, tests and builds.
func All() {
	mg.SerialDeps(Lint, Test, Build)
}
