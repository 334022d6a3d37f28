//go:build ignore

// build.go - olist pipeline build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, etl, analyze, olist, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

const version = "1.0.0"

var (
	distDir = "dist"

	// Command directory under cmd/ -> output binary name
	executables = map[string]string{
		"etl":     "olist-etl",
		"analyze": "olist-analyze",
		"olist":   "olist",
	}

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	fmt.Println(colorCyan + "=== olist pipeline - build ===" + colorReset)
	start := time.Now()

	var err error
	switch *target {
	case "all":
		for _, name := range []string{"etl", "analyze", "olist"} {
			if err = buildExecutable(name, *verbose); err != nil {
				break
			}
		}
	case "etl", "analyze", "olist":
		err = buildExecutable(*target, *verbose)
	case "test":
		err = runTests(*verbose)
	case "clean":
		err = os.RemoveAll(distDir)
	default:
		fmt.Println("Targets: all, etl, analyze, olist, test, clean")
		os.Exit(1)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(start).Round(time.Millisecond)))
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func buildExecutable(name string, verbose bool) error {
	exeName := executables[name]
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", name))

	outputPath := filepath.Join(distDir, exeName)
	ldflags := fmt.Sprintf("-s -w -X main.Version=%s", version)

	args := []string{"build", "-ldflags", ldflags, "-o", outputPath, "./cmd/" + name}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	if err := run(verbose, "go", args...); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, float64(info.Size())/1024/1024))
	}
	return nil
}

func runTests(verbose bool) error {
	printInfo("Running tests...")
	args := []string{"test", "./..."}
	if verbose {
		args = append(args, "-v")
	}
	return run(true, "go", args...)
}

func run(verbose bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}
