package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"SCapture/capture"
	"SCapture/logger"
	"SCapture/output"
	"SCapture/selector"
	"SCapture/ui"
)

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Drag to select a region and capture it",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cfg, outFile)
		defer a.close()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		out, err := ui.SelectRegion(ctx, a.selector)
		switch {
		case err == nil:
			logger.Logger.Info().Stringer("selection", out).Str("path", out.Result.Path).Msg("region captured")
			return nil
		case selector.IsCancelled(err):
			return nil
		case errors.Is(err, capture.ErrCaptureFailed), errors.Is(err, output.ErrSaveFailed):
			// キャプチャ失敗は何も表示しない。保存失敗は通知済み
			return errSilent
		}
		return err
	},
}

func platformSinkOptions() []output.Option {
	return []output.Option{
		output.WithClipboard(ui.Clipboard{}),
		output.WithNotifier(ui.Notifier{Log: logger.WithComponent("notify")}),
	}
}
