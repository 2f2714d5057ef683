package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/envboot/cmd/envboot"
	"github.com/arthur-debert/envboot/pkg/style"
)

func main() {
	rootCmd := envboot.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
