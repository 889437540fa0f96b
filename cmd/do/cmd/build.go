package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build commands",
	}

	cmd.AddCommand(buildServerCmd())
	return cmd
}

func buildServerCmd() *cobra.Command {
	var goos, goarch, out string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Build a static server binary into bin/",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = filepath.Join("bin", fmt.Sprintf("tagbox-%s-%s", goos, goarch))
			}
			return buildServer(goos, goarch, out)
		},
	}

	cmd.Flags().StringVar(&goos, "os", runtime.GOOS, "target operating system")
	cmd.Flags().StringVar(&goarch, "arch", runtime.GOARCH, "target architecture")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path (default bin/tagbox-<os>-<arch>)")
	return cmd
}

func buildServer(goos, goarch, out string) error {
	fmt.Printf("==> Building %s for %s/%s...\n", out, goos, goarch)

	// modernc sqlite is pure Go, so the binary can be fully static
	build := exec.Command("go", "build", "-trimpath", "-ldflags", "-s -w", "-o", out, "./cmd/server")
	build.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS="+goos, "GOARCH="+goarch)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return fmt.Errorf("go build failed: %w", err)
	}

	fmt.Println("==> Done!")
	return nil
}
