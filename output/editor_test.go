//go:build !windows

package output

import (
	"os"
	"os/exec"
	"testing"
)

func TestCommandEditorRemovesTempFile(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	dir := t.TempDir()
	e := &CommandEditor{Command: "true", TempDir: dir}

	if err := e.Open(testImage(4, 4)); err != nil {
		t.Fatalf("Open: %v", err)
	}
	e.Wait()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp files left after editor exit: %d", len(entries))
	}
}

func TestCommandEditorStartFailure(t *testing.T) {
	dir := t.TempDir()
	e := &CommandEditor{Command: "scapture-no-such-editor", TempDir: dir}

	if err := e.Open(testImage(2, 2)); err == nil {
		t.Fatal("Open succeeded with a missing command")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temp files left after failed start: %d", len(entries))
	}
}

func TestCommandEditorNoCommand(t *testing.T) {
	e := &CommandEditor{}
	if err := e.Open(testImage(2, 2)); err == nil {
		t.Error("Open succeeded without a command")
	}
}
