package main

import (
	"io"
	"os"
	"time"

	md2deck "github.com/alnah/go-md2deck"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Runner executes marp-cli. Nil uses md2deck.ExecRunner.
	Runner md2deck.CommandRunner
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
