//go:build windows

package ui

import (
	"context"
	"errors"
	"image"
	"sync"
	"syscall"
	"unsafe"

	"github.com/kbinani/screenshot"
	"github.com/lxn/win"

	"SCapture/dpi"
	"SCapture/selector"
)

const (
	wndClassName  = "SCaptureRegionOverlay"
	dimAlpha      = 120 // 選択中の暗転の濃さ
	lwaAlpha      = 0x2
	outlineWidth  = 2
	outlineColorR = 0
	outlineColorG = 120
	outlineColorB = 215
)

var (
	gdi32CreatePen   = syscall.NewLazyDLL("gdi32.dll").NewProc("CreatePen")
	user32SetLayered = syscall.NewLazyDLL("user32.dll").NewProc("SetLayeredWindowAttributes")
	user32SetCapture = syscall.NewLazyDLL("user32.dll").NewProc("SetCapture")
	user32ReleaseCap = syscall.NewLazyDLL("user32.dll").NewProc("ReleaseCapture")
	dwmFlush         = syscall.NewLazyDLL("dwmapi.dll").NewProc("DwmFlush")

	registerOnce sync.Once
	registerErr  error

	// current はウィンドウプロシージャが操作するオーバーレイです。セッションは同時に 1 つだけです。
	current *RegionOverlay
)

// RegionOverlay は仮想画面全体を覆う半透明のレイヤードウィンドウです。
// 座標はセッションのスケールで割った論理座標でセッションに渡します。
type RegionOverlay struct {
	hwnd   win.HWND
	bounds image.Rectangle // 物理ピクセル
	scale  dpi.Scale // sess.Scale() と同じ値
	sess   *selector.Session

	visible bool
	sel     selector.Rect // 論理座標

	released  bool
	upPoint   selector.Point
	cancelled bool
	closed    bool
}

// SelectRegion は全画面オーバーレイを表示してドラッグ選択を受け付け、
// 離した時点でキャプチャと出力を行います。Esc やウィンドウを閉じた場合は selector.ErrCancelled を返します。
// UI スレッド（runtime.LockOSThread 済み）から呼び出してください。
func SelectRegion(ctx context.Context, sel *selector.Selector) (selector.Outcome, error) {
	ov, err := newRegionOverlay()
	if err != nil {
		return selector.Outcome{}, err
	}
	sess, err := sel.Begin(ov)
	if err != nil {
		ov.Close()
		return selector.Outcome{}, err
	}
	ov.sess, ov.scale = sess, sess.Scale()

	var msg win.MSG
	for win.GetMessage(&msg, 0, 0, 0) > 0 {
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
		if ctx.Err() != nil {
			ov.cancelled = true
			break
		}
	}

	if !ov.released || ov.cancelled {
		sess.Cancel()
		return selector.Outcome{}, selector.ErrCancelled
	}
	return sess.PointerUp(ctx, ov.upPoint)
}

func newRegionOverlay() (*RegionOverlay, error) {
	registerOnce.Do(registerClass)
	if registerErr != nil {
		return nil, registerErr
	}
	bounds := virtualScreenBounds()
	if bounds.Empty() {
		return nil, errors.New("no active display")
	}
	ov := &RegionOverlay{bounds: bounds, scale: dpi.Identity}
	current = ov

	ov.hwnd = win.CreateWindowEx(
		win.WS_EX_LAYERED|win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW,
		syscall.StringToUTF16Ptr(wndClassName),
		nil,
		win.WS_POPUP|win.WS_VISIBLE,
		int32(bounds.Min.X), int32(bounds.Min.Y), int32(bounds.Dx()), int32(bounds.Dy()),
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if ov.hwnd == 0 {
		current = nil
		return nil, errors.New("CreateWindowEx failed")
	}
	setLayeredWindowAttributes(ov.hwnd, 0, dimAlpha, lwaAlpha)
	win.SetForegroundWindow(ov.hwnd)
	return ov, nil
}

func (o *RegionOverlay) Origin() selector.Point {
	return selector.Point{
		X: float64(o.bounds.Min.X) / o.scale.X,
		Y: float64(o.bounds.Min.Y) / o.scale.Y,
	}
}

func (o *RegionOverlay) ShowSelection(r selector.Rect) {
	o.visible, o.sel = true, r
	win.InvalidateRect(o.hwnd, nil, true)
}

func (o *RegionOverlay) HideSelection() {
	o.visible = false
	win.InvalidateRect(o.hwnd, nil, true)
}

func (o *RegionOverlay) SetOpacity(alpha float64) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	setLayeredWindowAttributes(o.hwnd, 0, uint8(alpha*255), lwaAlpha)
}

// Render は WM_PAINT を同期的に処理させます。
func (o *RegionOverlay) Render() error {
	if !win.UpdateWindow(o.hwnd) {
		return errors.New("UpdateWindow failed")
	}
	return nil
}

// WaitRendered は DWM の次のフレームの提示まで待ちます。
// デスクトップコンポジションが無効な環境ではエラーを返し、固定の待ち時間が使われます。
func (o *RegionOverlay) WaitRendered(ctx context.Context) error {
	if err := dwmFlush.Find(); err != nil {
		return err
	}
	// 透明化の反映とその次のフレームの 2 回分を待つ
	for i := 0; i < 2; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if hr, _, _ := dwmFlush.Call(); hr != 0 {
			return errors.New("DwmFlush failed")
		}
	}
	return nil
}

func (o *RegionOverlay) Close() {
	if o.closed {
		return
	}
	o.closed = true
	win.DestroyWindow(o.hwnd)
	if current == o {
		current = nil
	}
}

// toLogical はクライアント座標（物理ピクセル）を論理座標に変換します。
func (o *RegionOverlay) toLogical(lParam uintptr) selector.Point {
	x := int16(win.LOWORD(uint32(lParam)))
	y := int16(win.HIWORD(uint32(lParam)))
	return selector.Point{X: float64(x) / o.scale.X, Y: float64(y) / o.scale.Y}
}

func registerClass() {
	atom := win.RegisterClassEx(&win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(wndProc),
		HInstance:     win.GetModuleHandle(nil),
		LpszClassName: syscall.StringToUTF16Ptr(wndClassName),
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS)),
		HbrBackground: win.HBRUSH(win.GetStockObject(win.BLACK_BRUSH)),
	})
	if atom == 0 {
		registerErr = errors.New("RegisterClassEx failed")
	}
}

func wndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	o := current
	if o == nil || o.hwnd != hwnd {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}
	switch msg {
	case win.WM_LBUTTONDOWN:
		user32SetCapture.Call(uintptr(hwnd))
		o.sess.PointerDown(o.toLogical(lParam))
		return 0
	case win.WM_MOUSEMOVE:
		if wParam&win.MK_LBUTTON != 0 {
			o.sess.PointerMove(o.toLogical(lParam))
		}
		return 0
	case win.WM_LBUTTONUP:
		user32ReleaseCap.Call()
		if o.sess.State() == selector.Dragging {
			o.upPoint = o.toLogical(lParam)
			o.released = true
			win.PostQuitMessage(0)
		}
		return 0
	case win.WM_KEYDOWN:
		if wParam == win.VK_ESCAPE {
			o.cancelled = true
			win.PostQuitMessage(0)
		}
		return 0
	case win.WM_CLOSE:
		o.cancelled = true
		win.PostQuitMessage(0)
		return 0
	case win.WM_PAINT:
		o.paint(hwnd)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func (o *RegionOverlay) paint(hwnd win.HWND) {
	var ps win.PAINTSTRUCT
	hdc := win.BeginPaint(hwnd, &ps)
	defer win.EndPaint(hwnd, &ps)
	if hdc == 0 || !o.visible {
		return
	}
	x1 := int32(o.sel.Left * o.scale.X)
	y1 := int32(o.sel.Top * o.scale.Y)
	x2 := int32((o.sel.Left + o.sel.Width) * o.scale.X)
	y2 := int32((o.sel.Top + o.sel.Height) * o.scale.Y)

	pen := createPen(win.PS_SOLID, outlineWidth, uint32(win.RGB(outlineColorR, outlineColorG, outlineColorB)))
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))
	oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))
	win.Rectangle_(hdc, x1, y1, x2, y2)
	win.SelectObject(hdc, oldBrush)
	win.SelectObject(hdc, oldPen)
	win.DeleteObject(win.HGDIOBJ(pen))
}

// virtualScreenBounds は全ディスプレイを含む範囲を返します。
func virtualScreenBounds() image.Rectangle {
	var all image.Rectangle
	for i := 0; i < screenshot.NumActiveDisplays(); i++ {
		all = all.Union(screenshot.GetDisplayBounds(i))
	}
	return all
}

func createPen(style, width int32, color uint32) win.HPEN {
	r, _, _ := gdi32CreatePen.Call(uintptr(style), uintptr(width), uintptr(color))
	return win.HPEN(r)
}

func setLayeredWindowAttributes(hwnd win.HWND, crKey uint32, bAlpha uint8, dwFlags uint32) bool {
	r, _, _ := user32SetLayered.Call(uintptr(hwnd), uintptr(crKey), uintptr(bAlpha), uintptr(dwFlags))
	return r != 0
}
