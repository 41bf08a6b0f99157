package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/onyxhabits/onyx/cmd/do/cmd"

	"github.com/spf13/cobra"
)

const toolSourceDir = "cmd/do"

func main() {
	reexecIfStale()

	root := &cobra.Command{
		Use:          "do",
		Short:        "Onyx development tasks: hot reload, frontend builds and migrations",
		SilenceUsage: true,
	}
	root.AddCommand(
		cmd.DevCmd(),
		cmd.GenCmd(),
		cmd.BuildCmd(),
		cmd.MigrateCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// reexecIfStale rebuilds bin/do when its sources are newer than the binary
// and replaces the current process with the fresh build.
func reexecIfStale() {
	exe, err := os.Executable()
	if err != nil || !strings.HasSuffix(exe, filepath.Join("bin", "do")) {
		return
	}

	info, err := os.Stat(exe)
	if err != nil || !newestGoSource(toolSourceDir).After(info.ModTime()) {
		return
	}

	fmt.Println("Sources changed, rebuilding bin/do...")
	build := exec.Command("go", "build", "-o", exe, "./"+toolSourceDir)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Println("Rebuild failed:", err)
		return
	}

	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		fmt.Println("Re-exec failed:", err)
	}
}

func newestGoSource(dir string) time.Time {
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
