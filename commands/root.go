package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"SCapture/config"
	"SCapture/logger"
)

// errSilent はメッセージを出さずに終了コード 1 で終わるためのエラーです。
var errSilent = errors.New("silent failure")

var (
	cfgFile string
	cfg     config.Config
	v       = viper.New()

	rootCmd = &cobra.Command{
		Use:   "scapture",
		Short: "SCapture - screen, window and region screenshots",
		Long: `SCapture captures the screen, a window, or a region selected by dragging
over a full-screen overlay, and saves it as PNG, JPEG, BMP or PDF.

The capture is written to the desktop (or output.dir) as
screenshot_<timestamp>.<ext>, optionally copied to the clipboard, or handed
to an image editor instead of being saved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.Pretty)
			return nil
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is <config dir>/SCapture/config.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("format", "", "output format (bmp, jpeg, png, pdf)")
	flags.String("dir", "", "output folder (default is the desktop)")
	flags.Bool("clipboard", false, "also copy the capture to the clipboard")
	flags.Bool("editor", false, "open the capture in the editor instead of saving it")

	v.BindPFlag("log.level", flags.Lookup("log-level"))
	v.BindPFlag("output.format", flags.Lookup("format"))
	v.BindPFlag("output.dir", flags.Lookup("dir"))
	v.BindPFlag("output.always_copy_to_clipboard", flags.Lookup("clipboard"))
	v.BindPFlag("output.always_open_to_editor", flags.Lookup("editor"))

	rootCmd.AddCommand(regionCmd, fullCmd, windowCmd, windowsCmd, settingsCmd)
}

// Execute はコマンドを実行します。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
