package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"SCapture/capture"
	"SCapture/output"
	"SCapture/selector"
)

// AppName は設定フォルダ名と環境変数の接頭辞に使います。
const AppName = "SCapture"

// Config はアプリの設定です。コアのパッケージには構築時に値として渡します。
type Config struct {
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// OutputConfig は保存先の設定です。
type OutputConfig struct {
	Format                string `mapstructure:"format" yaml:"format"`
	Dir                   string `mapstructure:"dir" yaml:"dir"`
	JPEGQuality           int    `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
	AlwaysCopyToClipboard bool   `mapstructure:"always_copy_to_clipboard" yaml:"always_copy_to_clipboard"`
	AlwaysOpenToEditor    bool   `mapstructure:"always_open_to_editor" yaml:"always_open_to_editor"`
	EditorCommand         string `mapstructure:"editor_command" yaml:"editor_command"`
}

// CaptureConfig はキャプチャの調整値です。
type CaptureConfig struct {
	WindowInset int           `mapstructure:"window_inset" yaml:"window_inset"`
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// LogConfig はログの設定です。
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// Default は既定の設定を返します。
func Default() Config {
	return Config{
		Output: OutputConfig{
			Format:        "png",
			JPEGQuality:   90,
			EditorCommand: "mspaint",
		},
		Capture: CaptureConfig{
			WindowInset: capture.DefaultWindowInset,
			SettleDelay: selector.DefaultSettleDelay,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// SetDefaults は v に既定値を登録します。
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.jpeg_quality", d.Output.JPEGQuality)
	v.SetDefault("output.always_copy_to_clipboard", d.Output.AlwaysCopyToClipboard)
	v.SetDefault("output.always_open_to_editor", d.Output.AlwaysOpenToEditor)
	v.SetDefault("output.editor_command", d.Output.EditorCommand)
	v.SetDefault("capture.window_inset", d.Capture.WindowInset)
	v.SetDefault("capture.settle_delay", d.Capture.SettleDelay)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
}

// DefaultPath は設定ファイルの既定の場所（<UserConfigDir>/SCapture/config.yaml）です。
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, AppName, "config.yaml")
}

// Load は既定値・設定ファイル・環境変数（SCAPTURE_*）の順に読み込みます。
// v にはあらかじめ CLI フラグを BindPFlag しておけます。設定ファイルが無いのはエラーではありません。
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save は設定を YAML で path に書き込みます。
func Save(cfg Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate は設定値を検証します。
func (c Config) Validate() error {
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if q := c.Output.JPEGQuality; q < 1 || q > 100 {
		return fmt.Errorf("output.jpeg_quality must be 1-100, got %d", q)
	}
	if c.Capture.SettleDelay < 0 {
		return fmt.Errorf("capture.settle_delay must not be negative")
	}
	if c.Capture.WindowInset < capture.AutoWindowInset {
		return fmt.Errorf("capture.window_inset must be >= %d, got %d", capture.AutoWindowInset, c.Capture.WindowInset)
	}
	return nil
}

// SinkConfig は出力の設定を output.Config に変換します。
func (c Config) SinkConfig() output.Config {
	f, _ := output.ParseFormat(c.Output.Format)
	return output.Config{
		Format:                f,
		Dir:                   c.Output.Dir,
		JPEGQuality:           c.Output.JPEGQuality,
		AlwaysCopyToClipboard: c.Output.AlwaysCopyToClipboard,
		AlwaysOpenToEditor:    c.Output.AlwaysOpenToEditor,
	}
}
