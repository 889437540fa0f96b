package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/templui/tagbox/cmd/do/cmd"

	"github.com/spf13/cobra"
)

const cliSourceDir = "cmd/do"

func main() {
	rebuildIfStale()

	root := &cobra.Command{
		Use:          "do",
		Short:        "tagbox developer CLI: hot reload, database migrations and release builds",
		SilenceUsage: true,
	}
	root.AddCommand(cmd.DevCmd(), cmd.MigrateCmd(), cmd.BuildCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// rebuildIfStale recompiles bin/do and re-execs it when any CLI source file
// is newer than the running binary. Binaries outside bin/ are left alone.
func rebuildIfStale() {
	exe, err := os.Executable()
	if err != nil || !strings.HasSuffix(exe, filepath.Join("bin", "do")) {
		return
	}

	info, err := os.Stat(exe)
	if err != nil || !newestSource(cliSourceDir).After(info.ModTime()) {
		return
	}

	fmt.Println("cmd/do changed, rebuilding bin/do")
	build := exec.Command("go", "build", "-o", exe, "./"+cliSourceDir)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Println("rebuild failed, running the old binary:", err)
		return
	}

	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		fmt.Println("re-exec failed:", err)
	}
}

// newestSource returns the latest modification time of the .go files under
// dir, or the zero time when there are none.
func newestSource(dir string) time.Time {
	var newest time.Time
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		if info, err := d.Info(); err == nil && info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	return newest
}
