// Package main provides the validate-config CLI: the standalone pre-boot
// configuration validator for firmware images.
package main

import (
	"errors"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error; the only job left is
		// picking the exit code.
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(exitMalformed)
	}
}
