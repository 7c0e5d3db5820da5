package capture

import (
	"errors"
	"fmt"
	"image"
	"syscall"
	"unsafe"

	"github.com/lxn/win"

	"SCapture/dpi"
	"SCapture/keyboard"
)

var (
	user32                    = syscall.NewLazyDLL("user32.dll")
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procGetDesktopWindow      = user32.NewProc("GetDesktopWindow")
	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

const dwmwaExtendedFrameBounds = 9

// GDIDevice は GDI（GetDC / CreateCompatibleDC / BitBlt）でキャプチャする Device です。
type GDIDevice struct {
	Scale dpi.Resolver
}

// NewDevice はこのプラットフォームの Device を返します。
func NewDevice(scale dpi.Resolver) Device {
	return &GDIDevice{Scale: scale}
}

func getDesktopWindow() win.HWND {
	r, _, _ := procGetDesktopWindow.Call()
	return win.HWND(r)
}

func (d *GDIDevice) AcquireDesktop() (Desktop, error) {
	hwnd := getDesktopWindow()
	hdc := win.GetDC(hwnd)
	if hdc == 0 {
		return nil, errors.New("GetDC failed")
	}
	return &gdiDesktop{hwnd: hwnd, hdc: hdc}, nil
}

// PrimaryLogicalSize は DPI 対応プロセスで得た物理サイズを現在のスケールで割って返します。
func (d *GDIDevice) PrimaryLogicalSize() (float64, float64) {
	w := float64(win.GetSystemMetrics(win.SM_CXSCREEN))
	h := float64(win.GetSystemMetrics(win.SM_CYSCREEN))
	s := d.Scale.Resolve()
	return w / s.X, h / s.Y
}

func (d *GDIDevice) WindowRect(h WindowHandle) (Region, error) {
	var rc win.RECT
	if !win.GetWindowRect(win.HWND(h), &rc) {
		return Region{}, fmt.Errorf("GetWindowRect(%#x) failed", uintptr(h))
	}
	return fromRECT(rc), nil
}

// FrameBounds は DWM の拡張枠境界（影を含まない見えている範囲）を返します。
func (d *GDIDevice) FrameBounds(h WindowHandle) (Region, error) {
	if procDwmGetWindowAttribute.Find() != nil {
		return Region{}, errors.New("dwmapi not available")
	}
	var rc win.RECT
	hr, _, _ := procDwmGetWindowAttribute.Call(uintptr(h), dwmwaExtendedFrameBounds,
		uintptr(unsafe.Pointer(&rc)), unsafe.Sizeof(rc))
	if hr != 0 {
		return Region{}, fmt.Errorf("DwmGetWindowAttribute failed: %#x", hr)
	}
	return fromRECT(rc), nil
}

// Foreground は Alt を一度押してから SetForegroundWindow を呼びます。
// 入力を受けていないプロセスからの前面化は Windows に拒否されるためです。
// Alt の送信に失敗しても前面化は試み、両方のエラーをまとめて返します。
func (d *GDIDevice) Foreground(h WindowHandle) error {
	hwnd := win.HWND(h)
	var errs []error
	if err := keyboard.Send("Alt"); err != nil {
		errs = append(errs, fmt.Errorf("send Alt: %w", err))
	}
	if !win.SetForegroundWindow(hwnd) {
		errs = append(errs, fmt.Errorf("SetForegroundWindow(%#x) failed", uintptr(h)))
	}
	return errors.Join(errs...)
}

func fromRECT(rc win.RECT) Region {
	return Region{
		X:      int(rc.Left),
		Y:      int(rc.Top),
		Width:  int(rc.Right - rc.Left),
		Height: int(rc.Bottom - rc.Top),
	}
}

type gdiDesktop struct {
	hwnd win.HWND
	hdc  win.HDC
}

func (d *gdiDesktop) NewOffscreen(width, height int) (Offscreen, error) {
	mem := win.CreateCompatibleDC(d.hdc)
	if mem == 0 {
		return nil, errors.New("CreateCompatibleDC failed")
	}
	bitmap := win.CreateCompatibleBitmap(d.hdc, int32(width), int32(height))
	if bitmap == 0 {
		win.DeleteDC(mem)
		return nil, errors.New("CreateCompatibleBitmap failed")
	}
	old := win.SelectObject(mem, win.HGDIOBJ(bitmap))
	if old == 0 {
		win.DeleteObject(win.HGDIOBJ(bitmap))
		win.DeleteDC(mem)
		return nil, errors.New("SelectObject failed")
	}
	return &gdiOffscreen{src: d.hdc, mem: mem, bitmap: bitmap, old: old, width: width, height: height}, nil
}

func (d *gdiDesktop) Release() error {
	if !win.ReleaseDC(d.hwnd, d.hdc) {
		return errors.New("ReleaseDC failed")
	}
	return nil
}

type gdiOffscreen struct {
	src           win.HDC
	mem           win.HDC
	bitmap        win.HBITMAP
	old           win.HGDIOBJ
	width, height int
}

func (o *gdiOffscreen) CopyFrom(x, y int) error {
	if !win.BitBlt(o.mem, 0, 0, int32(o.width), int32(o.height), o.src, int32(x), int32(y), win.SRCCOPY) {
		return errors.New("BitBlt failed")
	}
	return nil
}

func (o *gdiOffscreen) Image() (*image.RGBA, error) {
	var header win.BITMAPINFOHEADER
	header.BiSize = uint32(unsafe.Sizeof(header))
	header.BiPlanes = 1
	header.BiBitCount = 32
	header.BiWidth = int32(o.width)
	header.BiHeight = int32(-o.height) // トップダウン
	header.BiCompression = win.BI_RGB

	// GetDIBits は Go のメモリを嫌う環境があるため GlobalAlloc を使う
	size := uintptr(o.width * o.height * 4)
	hmem := win.GlobalAlloc(win.GMEM_MOVEABLE, size)
	if hmem == 0 {
		return nil, errors.New("GlobalAlloc failed")
	}
	defer win.GlobalFree(hmem)
	ptr := win.GlobalLock(hmem)
	if ptr == nil {
		return nil, errors.New("GlobalLock failed")
	}
	defer win.GlobalUnlock(hmem)

	// GetDIBits の対象ビットマップは DC に選択されていてはいけない
	win.SelectObject(o.mem, o.old)
	defer win.SelectObject(o.mem, win.HGDIOBJ(o.bitmap))

	if win.GetDIBits(o.src, o.bitmap, 0, uint32(o.height), (*uint8)(ptr),
		(*win.BITMAPINFO)(unsafe.Pointer(&header)), win.DIB_RGB_COLORS) == 0 {
		return nil, errors.New("GetDIBits failed")
	}

	src := unsafe.Slice((*byte)(ptr), int(size))
	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	for i := 0; i < len(src); i += 4 {
		// BGRA -> RGBA（アルファは不透明にする）
		img.Pix[i+0] = src[i+2]
		img.Pix[i+1] = src[i+1]
		img.Pix[i+2] = src[i+0]
		img.Pix[i+3] = 0xff
	}
	return img, nil
}

func (o *gdiOffscreen) Release() error {
	win.SelectObject(o.mem, o.old)
	ok := win.DeleteObject(win.HGDIOBJ(o.bitmap))
	if !win.DeleteDC(o.mem) || !ok {
		return errors.New("DeleteObject/DeleteDC failed")
	}
	return nil
}
