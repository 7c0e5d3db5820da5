//go:build !windows

package commands

const editSettingsAvailable = false

func editSettings() error { return nil }
