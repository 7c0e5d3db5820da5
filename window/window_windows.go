package window

import (
	"syscall"
	"unsafe"

	"github.com/lxn/win"

	"SCapture/capture"
)

var (
	user32             = syscall.NewLazyDLL("user32.dll")
	procEnumWindows    = user32.NewProc("EnumWindows")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
)

// List は表示されていてタイトルのあるトップレベルウィンドウを Z オーダー順に返します。
func List() []Info {
	var list []Info
	cb := syscall.NewCallback(func(hwnd win.HWND, lParam uintptr) uintptr {
		if win.IsWindowVisible(hwnd) {
			if title := windowText(hwnd); title != "" {
				out := (*[]Info)(unsafe.Pointer(lParam))
				*out = append(*out, Info{Handle: capture.WindowHandle(hwnd), Title: title})
			}
		}
		return 1 // 続行
	})
	procEnumWindows.Call(cb, uintptr(unsafe.Pointer(&list)))
	return list
}

func windowText(hwnd win.HWND) string {
	buf := make([]uint16, 256)
	r0, _, _ := syscall.Syscall(procGetWindowTextW.Addr(), 3,
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)))
	if r0 == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:r0])
}
