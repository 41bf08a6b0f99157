package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func GenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen",
		Short: "Rebuild the embedded frontend when its sources changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
}

func runGen() error {
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		fmt.Println("[web] skipped (no frontend/ directory)")
		return nil
	}
	if skipWeb() {
		fmt.Println("[web] skipped")
		return nil
	}

	start := time.Now()
	if err := buildWeb(); err != nil {
		return fmt.Errorf("web: %w", err)
	}
	fmt.Printf("[web] done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func skipWeb() bool {
	var inputs []string
	for _, dir := range []string{"src", "public"} {
		_ = filepath.WalkDir(filepath.Join(frontendDir, dir), func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			inputs = append(inputs, path)
			return nil
		})
	}
	for _, name := range []string{"index.html", "package.json", "vite.config.js"} {
		inputs = append(inputs, filepath.Join(frontendDir, name))
	}
	return isUpToDate(filepath.Join(webDistDir, "index.html"), inputs)
}

func isUpToDate(output string, inputs []string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return false
	}
	outMod := outInfo.ModTime()

	for _, input := range inputs {
		inInfo, err := os.Stat(input)
		if err != nil {
			continue
		}
		if inInfo.ModTime().After(outMod) {
			return false
		}
	}
	return true
}
