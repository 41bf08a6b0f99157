package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	devProxyPort = "5001"
	devAppPort   = "5090"
)

func DevCmd() *cobra.Command {
	var frontendOnly bool
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the API under air with hot reload",
		Long: "Run the API under air with hot reload. The API listens on " + devAppPort +
			" behind air's live-reload proxy on " + devProxyPort + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			if frontendOnly {
				return runIn(frontendDir, "npm", "run", "dev")
			}
			return runDev()
		},
	}
	cmd.Flags().BoolVar(&frontendOnly, "frontend", false, "run the Vite dev server instead of the API")
	return cmd
}

func runDev() error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("air is not installed. Install it with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return errors.New("air not found")
	}

	if err := run("go", "build", "-o", "bin/do", "./cmd/do"); err != nil {
		return fmt.Errorf("failed to build do: %w", err)
	}

	excluded := []string{"bin", "tmp", "data", "node_modules", frontendDir, webDistDir}
	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "./bin/do gen && go build -o ./tmp/server ./cmd/server",
		"-build.bin", "./tmp/server",
		"-build.delay", "100",
		"-build.exclude_dir", strings.Join(excluded, ","),
		"-build.exclude_regex", "_test.go$",
		"-build.include_ext", "go,sql",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
		"-proxy.enabled", "true",
		"-proxy.proxy_port", devProxyPort,
		"-proxy.app_port", devAppPort,
	}

	env := append(os.Environ(), "PORT="+devAppPort, "APP_ENV=development")
	return syscall.Exec(airPath, airArgs, env)
}
