//go:build smoke

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
)

// TestSmoke_Binary builds the binary and drives every command end-to-end.
// Subtests run sequentially and depend on the first subtest building the binary.
func TestSmoke_Binary(t *testing.T) {
	projectRoot := findProjectRoot(t)
	binary := filepath.Join(t.TempDir(), "contactbus")
	workDir := t.TempDir()

	t.Run("go build produces a contactbus binary", func(t *testing.T) {
		cmd := exec.Command("go", "build",
			"-ldflags", "-X main.version=smoke-test -X main.commit=abc1234 -X main.date=2026-01-01",
			"-o", binary, "./cmd/contactbus")
		cmd.Dir = projectRoot
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("go build failed: %v\n%s", err, out)
		}
	})

	t.Run("version prints version commit and date", func(t *testing.T) {
		out := runBinary(t, binary, workDir, "--version")
		for _, want := range []string{"smoke-test", "abc1234", "2026-01-01"} {
			if !strings.Contains(out, want) {
				t.Errorf("--version output = %q, want %q", out, want)
			}
		}
	})

	t.Run("create prints the summary", func(t *testing.T) {
		out := runBinary(t, binary, workDir, "create", "--name", "Jane", "--surname", "Doe", "--tel", "555-1234")
		if !strings.Contains(out, "Name: Jane\nSurname: Doe\nTel: 555-1234") {
			t.Errorf("create output = %q", out)
		}
	})

	t.Run("create with german locale", func(t *testing.T) {
		out := runBinary(t, binary, workDir, "--locale", "de", "create", "--name", "Erika")
		if !strings.Contains(out, "Vorname: Erika") {
			t.Errorf("create output = %q", out)
		}
	})

	t.Run("unknown locale exits with setup code", func(t *testing.T) {
		cmd := exec.Command(binary, "--locale", "xx", "create")
		cmd.Dir = workDir
		err := cmd.Run()
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != exitSetup {
			t.Errorf("exit = %v, want code %d", err, exitSetup)
		}
	})

	t.Run("locales lists embedded files", func(t *testing.T) {
		out := runBinary(t, binary, workDir, "locales")
		if out != "de\nen\n" {
			t.Errorf("locales output = %q", out)
		}
	})

	t.Run("ui under a pty shows the summary", func(t *testing.T) {
		cmd := exec.Command(binary, "ui")
		cmd.Dir = workDir
		cmd.Env = append(os.Environ(), "TERM=xterm-256color")

		ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 80})
		if err != nil {
			t.Fatalf("failed to start with PTY: %v", err)
		}
		t.Cleanup(func() {
			ptmx.Close()
			if cmd.Process != nil {
				cmd.Process.Kill()
				cmd.Wait()
			}
		})

		readPTYUntil(t, ptmx, "Create contact", 5*time.Second)
		ptmx.Write([]byte("Jane\tDoe\t555-1234\r"))
		out := readPTYUntil(t, ptmx, "Tel: 555-1234", 5*time.Second)
		if !strings.Contains(stripANSI(out), "Tel: 555-1234") {
			t.Fatalf("summary not shown, output:\n%s", stripANSI(out))
		}

		ptmx.Write([]byte("q"))
		waitForExit(t, cmd, 5*time.Second)
	})
}

func runBinary(t *testing.T, binary, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("contactbus %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// readPTYUntil reads from the PTY until the target string appears or timeout.
func readPTYUntil(t *testing.T, ptmx *os.File, target string, timeout time.Duration) string {
	t.Helper()
	var buf bytes.Buffer
	deadline := time.After(timeout)
	tmp := make([]byte, 4096)

	for {
		ptmx.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := ptmx.Read(tmp)
		if n > 0 {
			buf.Write(tmp[:n])
			if strings.Contains(stripANSI(buf.String()), target) {
				return buf.String()
			}
		}
		select {
		case <-deadline:
			t.Logf("timeout waiting for %q, got so far:\n%s", target, stripANSI(buf.String()))
			return buf.String()
		default:
		}
		if err != nil && !os.IsTimeout(err) && err != io.EOF {
			return buf.String()
		}
	}
}

// waitForExit waits for the command to exit within the timeout.
func waitForExit(t *testing.T, cmd *exec.Cmd, timeout time.Duration) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("contactbus exited with: %v", err)
		}
	case <-time.After(timeout):
		cmd.Process.Kill()
		t.Errorf("contactbus did not exit within %s, killed", timeout)
	}
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}
