package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger はアプリ全体で使うロガーです。
var Logger zerolog.Logger

func init() {
	// Init が呼ばれるまでは info レベル・JSON 出力
	Logger = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = Logger
}

// ParseLevel はレベル名を zerolog のレベルに変換します。不明な名前は info 扱いです。
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init はレベルと出力形式を指定してロガーを初期化します。
func Init(level string, pretty bool) {
	zerolog.SetGlobalLevel(ParseLevel(level))

	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.TimeOnly,
		}
	}

	Logger = zerolog.New(out).
		With().
		Timestamp().
		Logger()
	log.Logger = Logger
}

// WithComponent は component フィールド付きの子ロガーを返します。
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}
