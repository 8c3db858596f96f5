// Package main implements the entry point for the scry-study server, which
// runs spaced repetition study sessions over a user's flashcards.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
