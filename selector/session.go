package selector

import (
	"context"
	"errors"
	"fmt"

	"SCapture/dpi"
)

// State はセッションの状態です。
type State int

const (
	Idle State = iota
	Dragging
	Capturing
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Capturing:
		return "capturing"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session は 1 回のドラッグ選択です。
// ポインターイベントはすべて同じ UI スレッドから呼び出してください。
type Session struct {
	sel     *Selector
	overlay Overlay
	scale   dpi.Scale

	state   State
	anchor  Point
	current Point
	moved   bool
}

// Scale はこのセッションで論理座標と物理ピクセルの変換に使うスケールです。
// オーバーレイもポインター座標の変換にこの値を使ってください。
func (s *Session) Scale() dpi.Scale { return s.scale }

// State は現在の状態を返します。
func (s *Session) State() State { return s.state }

// Selection は現在の選択範囲（論理座標）を返します。
func (s *Session) Selection() Rect {
	return RectFromPoints(s.anchor, s.current)
}

// PointerDown はドラッグを開始し、押した位置を起点にします。
func (s *Session) PointerDown(p Point) {
	if s.state != Idle {
		return
	}
	s.anchor, s.current = p, p
	s.moved = false
	s.state = Dragging
	// 大きさ 0 の枠がちらつかないよう、動くまでは表示しない
	s.overlay.HideSelection()
}

// PointerMove は選択範囲を更新し、枠を表示します。
func (s *Session) PointerMove(p Point) {
	if s.state != Dragging {
		return
	}
	s.current = p
	if p != s.anchor {
		s.moved = true
	}
	if s.moved {
		s.overlay.ShowSelection(s.Selection())
	}
}

// PointerUp は選択を確定してキャプチャし、結果を出力してからオーバーレイを閉じます。
//
// キャプチャの前に枠を消し、オーバーレイ全体を透明にして描画を強制し、
// 画面に反映されるまで待ちます。待っている間に ctx が終わると何もせずに閉じます。
// 動きのないドラッグは ErrCancelled になり、キャプチャは行いません。
// キャプチャの失敗は capture.ErrCaptureFailed、出力の失敗は Dispatcher のエラーを返します。
// どの場合もオーバーレイは閉じます。
func (s *Session) PointerUp(ctx context.Context, p Point) (out Outcome, err error) {
	if s.state != Dragging {
		return out, ErrNotDragging
	}
	s.current = p
	s.state = Capturing
	defer s.close()

	log := s.sel.log
	out.Selection = s.Selection()
	if out.Selection.Empty() {
		log.Debug().Msg("zero-size selection")
		return out, ErrCancelled
	}

	s.overlay.HideSelection()
	s.overlay.SetOpacity(0)
	if err := s.overlay.Render(); err != nil {
		log.Warn().Err(err).Msg("overlay render failed")
	}
	if err := s.sel.wait(ctx, s.overlay); err != nil {
		return out, fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	scale := s.scale
	out.Region = ToPhysical(out.Selection, s.overlay.Origin(), scale)
	if out.Region.Empty() {
		return out, ErrCancelled
	}

	img, err := s.sel.capturer.CaptureRegion(out.Region)
	if err != nil {
		log.Error().Err(err).Stringer("region", out.Region).Msg("capture failed")
		return out, err
	}
	log.Debug().Stringer("region", out.Region).Float64("scale_x", scale.X).Float64("scale_y", scale.Y).Msg("captured selection")

	out.Result, err = s.sel.dispatcher.Dispatch(img, s.sel.target)
	return out, err
}

// Cancel はキャプチャ前のセッションを閉じます。副作用はありません。
func (s *Session) Cancel() {
	if s.state == Capturing || s.state == Closed {
		return
	}
	s.close()
}

func (s *Session) close() {
	if s.state == Closed {
		return
	}
	s.state = Closed
	s.overlay.Close()
	s.sel.end(s)
}

// IsCancelled は err がユーザーによる中断なら true を返します。
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
