//go:build !windows

package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"SCapture/logger"
	"SCapture/output"
)

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Drag to select a region and capture it (Windows only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("interactive region selection is only available on Windows")
	},
}

type logNotifier struct{}

func (logNotifier) Info(msg string) { logger.Logger.Info().Msg(msg) }
func (logNotifier) Error(msg string) { logger.Logger.Error().Msg(msg) }

func platformSinkOptions() []output.Option {
	return []output.Option{output.WithNotifier(logNotifier{})}
}
