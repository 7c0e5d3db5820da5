package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"SCapture/window"
)

var (
	outFile     string
	delay       time.Duration
	windowTitle string
)

var fullCmd = &cobra.Command{
	Use:   "full",
	Short: "Capture the whole primary screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cfg, outFile)
		defer a.close()
		wait(delay)
		img, err := a.engine.CaptureFullScreen()
		return a.deliver(img, err, outFile)
	},
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Capture a window by title",
	RunE: func(cmd *cobra.Command, args []string) error {
		if windowTitle == "" {
			return errors.New("--title is required")
		}
		w, ok := window.FindByTitle(windowTitle)
		if !ok {
			return fmt.Errorf("no single visible window matches %q", windowTitle)
		}
		a := newApp(cfg, outFile)
		defer a.close()
		wait(delay)
		img, err := a.engine.CaptureWindow(w.Handle)
		return a.deliver(img, err, outFile)
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List visible window titles",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, w := range window.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%#x\t%s\n", uintptr(w.Handle), w.Title)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{fullCmd, windowCmd, regionCmd} {
		c.Flags().StringVarP(&outFile, "out", "o", "", "file name; its extension selects the format")
	}
	for _, c := range []*cobra.Command{fullCmd, windowCmd} {
		c.Flags().DurationVar(&delay, "delay", 0, "wait before capturing")
	}
	windowCmd.Flags().StringVarP(&windowTitle, "title", "t", "", "window title (exact, or a unique substring)")
}
