package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var (
	// ErrSaveFailed はエンコードまたは書き込みの失敗です（権限不足など）。
	ErrSaveFailed = errors.New("save failed")
	// ErrEditorFailed はエディタへの受け渡しの失敗です。
	ErrEditorFailed = errors.New("editor hand-off failed")
	// ErrUnsupported はこのプラットフォームで使えない出力先です。
	ErrUnsupported = errors.New("not supported on this platform")
)

// SaveFailedMessage は保存失敗時にユーザーに表示する文言です。
const SaveFailedMessage = "Oups! We couldn't save this file. Please check permissions."

// TimestampLayout は既定ファイル名のタイムスタンプ形式です。ロケールに依存しません。
const TimestampLayout = "2006_01_02_15_04_05"

// Config は出力先の設定です。
type Config struct {
	Format                Format
	Dir                   string // 空ならデスクトップ
	JPEGQuality           int
	AlwaysCopyToClipboard bool
	AlwaysOpenToEditor    bool
}

// Clipboard はシステムのクリップボードです。
type Clipboard interface {
	SetImage(img image.Image) error
}

// Editor はキャプチャを受け取る編集ウィンドウです。渡した画像の所有権は Editor に移ります。
type Editor interface {
	Open(img *image.RGBA) error
}

// Notifier はユーザーへの通知です。Error はユーザーが閉じるまで戻らない実装を想定しています。
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Result は Dispatch の結果です。
type Result struct {
	Path         string // 保存したファイル（保存しなかった場合は空）
	Copied       bool   // クリップボードにコピーした
	Edited       bool   // エディタに渡した
	ClipboardErr error  // クリップボードの失敗は保存・エディタの結果とは別に扱う
}

// Sink はキャプチャ画像をファイル・クリップボード・エディタに振り分けます。
type Sink struct {
	cfg       Config
	fs        afero.Fs
	clipboard Clipboard
	editor    Editor
	notifier  Notifier
	desktop   func() (string, error)
	now       func() time.Time
	log       zerolog.Logger
}

// Option は Sink の設定です。
type Option func(*Sink)

func WithFs(fs afero.Fs) Option { return func(s *Sink) { s.fs = fs } }
func WithClipboard(c Clipboard) Option { return func(s *Sink) { s.clipboard = c } }
func WithEditor(e Editor) Option { return func(s *Sink) { s.editor = e } }
func WithNotifier(n Notifier) Option { return func(s *Sink) { s.notifier = n } }
func WithClock(now func() time.Time) Option { return func(s *Sink) { s.now = now } }
func WithLogger(l zerolog.Logger) Option { return func(s *Sink) { s.log = l } }
func WithDesktop(f func() (string, error)) Option { return func(s *Sink) { s.desktop = f } }

// NewSink は Sink を作成します。既定では OS のファイルシステムとデスクトップを使います。
func NewSink(cfg Config, opts ...Option) *Sink {
	s := &Sink{
		cfg:     cfg,
		fs:      afero.NewOsFs(),
		desktop: DesktopDir,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch は設定に従って img を出力します。
// クリップボードへのコピーは独立して行い、そのうえでエディタへ渡すかファイルに保存するかのどちらか一方を行います。
// target が空でなければそのファイル名（拡張子で形式を決める）に保存します。
// 空の画像は何も出力せずに成功を返します。
// 呼び出し後、img を使ってはいけません。
func (s *Sink) Dispatch(img *image.RGBA, target string) (res Result, err error) {
	if img == nil || img.Bounds().Empty() {
		s.log.Debug().Msg("empty capture, nothing to output")
		return res, nil
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrSaveFailed, p)
			s.fail(err)
		}
	}()

	if s.cfg.AlwaysCopyToClipboard {
		if s.clipboard == nil {
			res.ClipboardErr = ErrUnsupported
		} else if cerr := s.clipboard.SetImage(img); cerr != nil {
			res.ClipboardErr = cerr
		} else {
			res.Copied = true
		}
		if res.ClipboardErr != nil {
			s.log.Warn().Err(res.ClipboardErr).Msg("clipboard copy failed")
		}
	}

	if s.cfg.AlwaysOpenToEditor {
		if s.editor == nil {
			return res, fmt.Errorf("%w: %v", ErrEditorFailed, ErrUnsupported)
		}
		if err := s.editor.Open(img); err != nil {
			s.log.Error().Err(err).Msg("editor hand-off failed")
			return res, fmt.Errorf("%w: %v", ErrEditorFailed, err)
		}
		res.Edited = true
		return res, nil
	}

	path, err := s.Save(img, target)
	if err != nil {
		s.fail(err)
		return res, err
	}
	res.Path = path
	s.log.Info().Str("path", path).Msg("file saved")
	if s.notifier != nil {
		s.notifier.Info("File saved!")
	}
	return res, nil
}

func (s *Sink) fail(err error) {
	s.log.Error().Err(err).Msg("save failed")
	if s.notifier != nil {
		s.notifier.Error(SaveFailedMessage)
	}
}

// Save は img をエンコードしてファイルに書き込み、そのパスを返します。
// target が空ならタイムスタンプ付きの既定名を使います。失敗はすべて ErrSaveFailed になります。
func (s *Sink) Save(img image.Image, target string) (string, error) {
	path, format, err := s.resolve(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	// 途中までのファイルを残さないよう、先にメモリ上でエンコードする
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, s.cfg.JPEGQuality); err != nil {
		return "", fmt.Errorf("%w: encode %s: %v", ErrSaveFailed, format, err)
	}

	f, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		s.fs.Remove(path)
		return "", fmt.Errorf("%w: write %s: %v", ErrSaveFailed, path, err)
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(path)
		return "", fmt.Errorf("%w: close %s: %v", ErrSaveFailed, path, err)
	}
	return path, nil
}

// resolve は保存先パスと形式を決めます。
func (s *Sink) resolve(target string) (string, Format, error) {
	if target != "" {
		name := SanitizeFileName(filepath.Base(target))
		if name == "" {
			return "", PNG, fmt.Errorf("invalid file name %q", target)
		}
		target = filepath.Join(filepath.Dir(target), name)
		if !filepath.IsAbs(target) {
			dir, err := s.dir()
			if err != nil {
				return "", PNG, err
			}
			target = filepath.Join(dir, target)
		}
		return target, FormatFromExt(target), nil
	}
	dir, err := s.dir()
	if err != nil {
		return "", PNG, err
	}
	return filepath.Join(dir, DefaultFileName(s.cfg.Format, s.now())), s.cfg.Format, nil
}

func (s *Sink) dir() (string, error) {
	if s.cfg.Dir != "" {
		return s.cfg.Dir, nil
	}
	dir, err := s.desktop()
	if err != nil {
		return "", fmt.Errorf("desktop folder: %w", err)
	}
	return dir, nil
}

// DefaultFileName は "screenshot_<タイムスタンプ>.<拡張子>" を返します。
func DefaultFileName(f Format, t time.Time) string {
	return "screenshot_" + t.Format(TimestampLayout) + f.Ext()
}

// SanitizeFileName は Windows のファイル名に使えない文字と制御文字を取り除きます。
func SanitizeFileName(name string) string {
	const invalid = `\/:*?"<>|`
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if !strings.ContainsRune(invalid, r) && r >= 0x20 {
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "." || s == ".." {
		return ""
	}
	return s
}
