package commands

import (
	"errors"
	"image"
	"time"

	"SCapture/capture"
	"SCapture/config"
	"SCapture/dpi"
	"SCapture/logger"
	"SCapture/output"
	"SCapture/selector"
)

// app は設定から組み立てたキャプチャの部品です。
type app struct {
	engine   *capture.Engine
	sink     *output.Sink
	editor   *output.CommandEditor
	selector *selector.Selector
}

func newApp(cfg config.Config, target string) *app {
	scale := dpi.System()
	engine := capture.NewEngine(capture.NewDevice(scale), scale,
		capture.WithWindowInset(cfg.Capture.WindowInset),
		capture.WithLogger(logger.WithComponent("capture")),
	)

	editor := &output.CommandEditor{
		Command: cfg.Output.EditorCommand,
		Log:     logger.WithComponent("editor"),
	}
	opts := []output.Option{
		output.WithLogger(logger.WithComponent("output")),
		output.WithEditor(editor),
	}
	opts = append(opts, platformSinkOptions()...)
	sink := output.NewSink(cfg.SinkConfig(), opts...)

	sel := selector.New(engine, sink, scale,
		selector.WithSettleDelay(cfg.Capture.SettleDelay),
		selector.WithTarget(target),
		selector.WithLogger(logger.WithComponent("selector")),
	)
	return &app{engine: engine, sink: sink, editor: editor, selector: sel}
}

// close はエディタの終了を待ち、一時ファイルが消えてから戻ります。
func (a *app) close() {
	if a.editor != nil {
		a.editor.Wait()
	}
}

// deliver は全画面・ウィンドウのキャプチャ結果を出力します。
func (a *app) deliver(img *image.RGBA, err error, target string) error {
	if err != nil {
		return err
	}
	_, err = a.sink.Dispatch(img, target)
	if errors.Is(err, output.ErrSaveFailed) {
		// 通知済み
		return errSilent
	}
	return err
}

func wait(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
