package cmd

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	// 1. Create a temporary directory
	tempDir := t.TempDir()

	// 2. Create cpc-hello executable
	helloCmdSource := fmt.Sprintf(`
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("%s=%%s\n", os.Getenv("%s"))
	fmt.Printf("args=%%v\n", os.Args[1:])
}
`, EnvAPIBase, EnvAPIBase, EnvVerbose, EnvVerbose, EnvTimeout, EnvTimeout)

	helloCmdPath := filepath.Join(tempDir, "cpc-hello")

	// Write source to a temporary file
	srcFile := helloCmdPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloCmdSource), 0644); err != nil {
		t.Fatalf("Failed to write cpc-hello source: %v", err)
	}

	// Compile cpc-hello
	cmd := exec.Command("go", "build", "-o", helloCmdPath, srcFile)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to compile cpc-hello: %v", err)
	}
	log.Printf("Compiled cpc-hello to %s", helloCmdPath)

	// 3. Compile the main cpc binary
	cpcBinaryPath := filepath.Join(tempDir, "cpc")
	cmd = exec.Command("go", "build", "-o", cpcBinaryPath, "../cpc")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to compile cpc binary: %v", err)
	}

	// 4. Call cpc binary with extension and global flags
	args := []string{
		"-api", "http://example.test:9000/api",
		"-timeout", "7s",
		"-v",
		"hello", // The extension subcommand
		"world",
	}

	cpcCmd := exec.Command(cpcBinaryPath, args...)
	oldPath := os.Getenv("PATH")
	cpcCmd.Env = []string{"PATH=" + tempDir + string(os.PathListSeparator) + oldPath}
	cpcCmd.Dir = tempDir

	var stdout, stderr bytes.Buffer
	cpcCmd.Stdout = &stdout
	cpcCmd.Stderr = &stderr

	if err := cpcCmd.Run(); err != nil {
		t.Fatalf("cpc command failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	// 5. Verify output
	output := stdout.String()
	for _, expectedLine := range []string{
		EnvAPIBase + "=http://example.test:9000/api",
		EnvVerbose + "=true",
		EnvTimeout + "=7s",
		"args=[world]",
	} {
		if !strings.Contains(output, expectedLine) {
			t.Errorf("Expected output to contain %q, but got:\n%s", expectedLine, output)
		}
	}

	if stderr.Len() > 0 {
		t.Logf("Stderr from cpc command: %s", stderr.String())
	}
}
