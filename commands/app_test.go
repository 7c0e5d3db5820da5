package commands

import (
	"errors"
	"os"
	"testing"

	"SCapture/capture"
	"SCapture/output"
)

type notes struct {
	infos, errs []string
}

func (n *notes) Info(msg string) { n.infos = append(n.infos, msg) }
func (n *notes) Error(msg string) { n.errs = append(n.errs, msg) }

func TestDeliverEmptyCapture(t *testing.T) {
	dir := t.TempDir()
	n := &notes{}
	a := &app{sink: output.NewSink(output.Config{Format: output.PNG, Dir: dir}, output.WithNotifier(n))}

	if err := a.deliver(capture.EmptyImage(), nil, ""); err != nil {
		t.Fatalf("deliver = %v, want nil", err)
	}
	if len(n.errs) != 0 {
		t.Errorf("error notifications = %v", n.errs)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d files written for an empty capture", len(entries))
	}
}

func TestDeliverCaptureError(t *testing.T) {
	n := &notes{}
	a := &app{sink: output.NewSink(output.Config{Dir: t.TempDir()}, output.WithNotifier(n))}

	err := a.deliver(nil, capture.ErrCaptureFailed, "")
	if !errors.Is(err, capture.ErrCaptureFailed) {
		t.Errorf("deliver = %v, want ErrCaptureFailed", err)
	}
	if len(n.errs) != 0 || len(n.infos) != 0 {
		t.Errorf("notifications infos=%v errs=%v", n.infos, n.errs)
	}
}
