package ui

import (
	"errors"
	"image"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"SCapture/output"
)

const cfDIB = 8

// Clipboard はキャプチャを CF_DIB としてクリップボードに置きます。
type Clipboard struct{}

var _ output.Clipboard = Clipboard{}

func (Clipboard) SetImage(img image.Image) error {
	dib, err := output.DIB(img)
	if err != nil {
		return err
	}
	if err := openClipboard(); err != nil {
		return err
	}
	defer win.CloseClipboard()

	if !win.EmptyClipboard() {
		return errors.New("EmptyClipboard failed")
	}
	hmem := win.GlobalAlloc(win.GMEM_MOVEABLE, uintptr(len(dib)))
	if hmem == 0 {
		return errors.New("GlobalAlloc failed")
	}
	ptr := win.GlobalLock(hmem)
	if ptr == nil {
		win.GlobalFree(hmem)
		return errors.New("GlobalLock failed")
	}
	copy(unsafe.Slice((*byte)(ptr), len(dib)), dib)
	win.GlobalUnlock(hmem)

	// 成功したらメモリの所有権はクリップボードに移る
	if win.SetClipboardData(cfDIB, win.HANDLE(hmem)) == 0 {
		win.GlobalFree(hmem)
		return errors.New("SetClipboardData failed")
	}
	return nil
}

// openClipboard は他のアプリが開いている間、少しだけ再試行します。
func openClipboard() error {
	for i := 0; i < 10; i++ {
		if win.OpenClipboard(0) {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return errors.New("OpenClipboard failed")
}
