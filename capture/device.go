package capture

import "image"

// Device は OS の描画資源への境界です。
type Device interface {
	// AcquireDesktop はデスクトップ全体の描画ハンドルを取得します。
	AcquireDesktop() (Desktop, error)
	// PrimaryLogicalSize はプライマリ画面の論理サイズを返します。
	PrimaryLogicalSize() (width, height float64)
	// WindowRect はウィンドウのスクリーン座標での範囲を返します。
	WindowRect(h WindowHandle) (Region, error)
	// Foreground はウィンドウを前面にします。
	Foreground(h WindowHandle) error
}

// Desktop はデスクトップの描画ハンドルです。Release で必ず解放します。
type Desktop interface {
	// NewOffscreen はデスクトップと互換のオフスクリーン面とビットマップを作成します。
	NewOffscreen(width, height int) (Offscreen, error)
	Release() error
}

// Offscreen はオフスクリーン面とそこに選択されたビットマップです。
type Offscreen interface {
	// CopyFrom はデスクトップの (x, y) から自身の (0, 0) へ、自身のサイズ分をそのままコピー（SRCCOPY）します。
	CopyFrom(x, y int) error
	// Image はビットマップを新しい *image.RGBA に変換します。
	Image() (*image.RGBA, error)
	Release() error
}

// FrameBounder は見えている枠の範囲を OS から取得できる Device です。
type FrameBounder interface {
	FrameBounds(h WindowHandle) (Region, error)
}
