package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
)

var errAirMissing = errors.New("air not found in PATH (go install github.com/air-verse/air@latest)")

func DevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Run the tagbox API with hot reload on .go and migration changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			airPath, err := exec.LookPath("air")
			if err != nil {
				return errAirMissing
			}

			fmt.Println("building bin/do")
			build := exec.Command("go", "build", "-o", "bin/do", "./cmd/do")
			build.Stdout = os.Stdout
			build.Stderr = os.Stderr
			if err := build.Run(); err != nil {
				return fmt.Errorf("failed to build do: %w", err)
			}

			return syscall.Exec(airPath, airArgs(), os.Environ())
		},
	}
}

// airArgs configures air entirely from flags so the repo needs no .air.toml.
// Uploads and the SQLite file live under data/ and must not trigger rebuilds.
func airArgs() []string {
	return []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "go build -o ./tmp/tagbox ./cmd/server",
		"-build.bin", "./tmp/tagbox",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,tmp,data,_examples",
		"-build.exclude_regex", "_test.go$",
		"-build.include_ext", "go,sql",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
	}
}
