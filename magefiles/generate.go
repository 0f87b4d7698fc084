//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// contentFile returns the outline named by CONTENT, defaulting to
// content/content.yaml.
func contentFile() string {
	if f := os.Getenv("CONTENT"); f != "" {
		return f
	}
	return "content/content.yaml"
}

// Plan prints the topic tree and estimated card counts without calling the LLM.
func Plan() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "generate", "--input", contentFile(), "--dry-run")
}

// Generate produces RemNote flashcards for the outline named by CONTENT.
func Generate() error {
	mg.Deps(Build)
	out := os.Getenv("OUTPUT")
	if out == "" {
		out = "output/flashcards.txt"
	}
	if err := sh.RunV(binPath(), "generate", "--input", contentFile(), "--output", out); err != nil {
		return err
	}
	fmt.Printf("Import %s into RemNote\n", out)
	return nil
}

// Check validates the outline named by CONTENT.
func Check() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "validate", "--content", contentFile())
}
