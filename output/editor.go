package output

import (
	"errors"
	"image"
	"image/png"
	"os"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"
)

// CommandEditor はキャプチャを一時 PNG に書き出し、外部の画像エディタで開きます。
// 一時ファイルはエディタの終了後に削除します。
type CommandEditor struct {
	Command string // 例: "mspaint"
	TempDir string // 空なら os.TempDir()
	Log     zerolog.Logger

	wg sync.WaitGroup
}

func (e *CommandEditor) Open(img *image.RGBA) error {
	if e.Command == "" {
		return errors.New("no editor command configured")
	}
	f, err := os.CreateTemp(e.TempDir, "screenshot_*.png")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return err
	}
	cmd := exec.Command(e.Command, name)
	if err := cmd.Start(); err != nil {
		os.Remove(name)
		return err
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := cmd.Wait(); err != nil {
			e.Log.Warn().Err(err).Str("command", e.Command).Msg("editor exited with error")
		}
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.Log.Warn().Err(err).Str("path", name).Msg("could not remove temp file")
		}
	}()
	return nil
}

// Wait は開いたエディタがすべて終了し、一時ファイルが削除されるまで待ちます。
func (e *CommandEditor) Wait() {
	e.wg.Wait()
}
