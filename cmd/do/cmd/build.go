package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	frontendDir = "frontend"
	webDistDir  = "web/dist"
)

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build commands",
	}

	cmd.AddCommand(buildWebCmd())
	cmd.AddCommand(buildServerCmd())
	return cmd
}

func buildWebCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "web",
		Short: "Build the frontend and embed it from web/dist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildWeb()
		},
	}
}

func buildServerCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Build the frontend, then the server binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := buildWeb(); err != nil {
				return err
			}
			fmt.Println("==> Building", output)
			return run("go", "build", "-o", output, "./cmd/server")
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "bin/server", "binary path")
	return cmd
}

func buildWeb() error {
	projectRoot, err := os.Getwd()
	if err != nil {
		return err
	}

	srcDir := filepath.Join(projectRoot, frontendDir)
	distDir := filepath.Join(projectRoot, webDistDir)

	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return fmt.Errorf("frontend not found at %s", srcDir)
	}
	if _, err := exec.LookPath("npm"); err != nil {
		return fmt.Errorf("missing required binary: npm")
	}

	fmt.Println("==> Installing dependencies...")
	if err := runIn(srcDir, "npm", "install"); err != nil {
		return fmt.Errorf("npm install failed: %w", err)
	}

	fmt.Println("==> Building frontend...")
	if err := runIn(srcDir, "npm", "run", "build"); err != nil {
		return fmt.Errorf("npm run build failed: %w", err)
	}

	fmt.Println("==> Copying build to", distDir)
	if err := os.RemoveAll(distDir); err != nil {
		return fmt.Errorf("failed to remove old dist dir: %w", err)
	}
	if err := copyDir(filepath.Join(srcDir, "dist"), distDir); err != nil {
		return fmt.Errorf("failed to copy build: %w", err)
	}

	fmt.Println("==> Done! Frontend built and copied to", webDistDir)
	return nil
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func runIn(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(dstPath, info.Mode())
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(dstPath, data, info.Mode())
	})
}
