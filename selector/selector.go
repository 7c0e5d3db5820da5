package selector

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"SCapture/capture"
	"SCapture/dpi"
	"SCapture/output"
)

var (
	// ErrCancelled はキャプチャ前にセッションが終わったことを表します。エラーとして表示しません。
	ErrCancelled = errors.New("cancelled by user")
	// ErrSessionActive は別のセッションが進行中であることを表します。
	ErrSessionActive = errors.New("a selection session is already active")
	// ErrNotDragging はドラッグ中でないときのポインター操作です。
	ErrNotDragging = errors.New("no drag in progress")
)

// DefaultSettleDelay はオーバーレイを消してからキャプチャするまでの待ち時間です。
// 描画完了の通知が得られない場合にだけ使う経験値で、再描画を保証するものではありません。
const DefaultSettleDelay = 200 * time.Millisecond

// Overlay は選択用の全画面オーバーレイです。UI スレッドから呼び出します。
type Overlay interface {
	// Origin はオーバーレイ左上の画面座標（論理）です。
	Origin() Point
	// ShowSelection は選択枠を r の位置に表示します。
	ShowSelection(r Rect)
	// HideSelection は選択枠を非表示にします。
	HideSelection()
	// SetOpacity はオーバーレイ全体の不透明度（0 で完全に透明）を設定します。
	SetOpacity(alpha float64)
	// Render は描画を強制します。
	Render() error
	// Close はオーバーレイを閉じます。
	Close()
}

// RenderWaiter は画面への反映完了を待てる Overlay です。
// 実装されていればキャプチャ前の固定待ちの代わりに使います。
type RenderWaiter interface {
	WaitRendered(ctx context.Context) error
}

// Capturer は物理ピクセル範囲をキャプチャします（capture.Engine）。
type Capturer interface {
	CaptureRegion(r capture.Region) (*image.RGBA, error)
}

// Dispatcher はキャプチャ結果を出力します（output.Sink）。
type Dispatcher interface {
	Dispatch(img *image.RGBA, target string) (output.Result, error)
}

// Selector は選択セッションを 1 つずつ開始します。
type Selector struct {
	capturer   Capturer
	dispatcher Dispatcher
	scale      dpi.Resolver
	settle     time.Duration
	target     string
	log        zerolog.Logger

	mu     sync.Mutex
	active *Session
}

// Option は Selector の設定です。
type Option func(*Selector)

// WithSettleDelay はオーバーレイを消してからキャプチャするまでの待ち時間を指定します。
func WithSettleDelay(d time.Duration) Option {
	return func(s *Selector) { s.settle = d }
}

// WithTarget は保存するファイル名を指定します。空なら既定名です。
func WithTarget(name string) Option {
	return func(s *Selector) { s.target = name }
}

// WithLogger はロガーを指定します。
func WithLogger(l zerolog.Logger) Option {
	return func(s *Selector) { s.log = l }
}

// New は Selector を作成します。
func New(c Capturer, d Dispatcher, scale dpi.Resolver, opts ...Option) *Selector {
	s := &Selector{
		capturer:   c,
		dispatcher: d,
		scale:      scale,
		settle:     DefaultSettleDelay,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin は ov 上で新しいセッションを開始します。前のセッションが閉じるまでは ErrSessionActive を返します。
func (s *Selector) Begin(ov Overlay) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, ErrSessionActive
	}
	// スケールはキャプチャ 1 回ごとに、セッション開始時に 1 度だけ求める
	sess := &Session{sel: s, overlay: ov, scale: s.scale.Resolve(), state: Idle}
	s.active = sess
	return sess, nil
}

// Active はセッションが進行中なら true を返します。
func (s *Selector) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

func (s *Selector) end(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == sess {
		s.active = nil
	}
}

// wait はオーバーレイの消去が画面に反映されるのを待ちます。
func (s *Selector) wait(ctx context.Context, ov Overlay) error {
	if w, ok := ov.(RenderWaiter); ok {
		err := w.WaitRendered(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Debug().Err(err).Msg("render acknowledgment unavailable, falling back to delay")
	}
	if s.settle <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Outcome は完了したセッションの結果です。
type Outcome struct {
	Selection Rect
	Region    capture.Region
	Result    output.Result
}

func (o Outcome) String() string {
	return fmt.Sprintf("%v -> %s", o.Selection, o.Region)
}
