package commands

import (
	"SCapture/config"
	"SCapture/logger"
	"SCapture/ui"
)

const editSettingsAvailable = true

func editSettings() error {
	next, ok := ui.RunSettingsDialog(cfg)
	if !ok {
		return nil
	}
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Save(next, path); err != nil {
		return err
	}
	logger.Logger.Info().Str("path", path).Msg("settings saved")
	return nil
}
