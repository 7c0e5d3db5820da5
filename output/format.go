package output

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/bmp"
)

// Format は保存形式です。値は旧設定（0=BMP, 1=JPEG, それ以外=PNG）と互換です。
type Format int

const (
	BMP Format = iota
	JPEG
	PNG
	PDF
)

const defaultJpegQuality = 90

func (f Format) String() string {
	switch f {
	case BMP:
		return "bmp"
	case JPEG:
		return "jpeg"
	case PDF:
		return "pdf"
	default:
		return "png"
	}
}

// Ext はファイル拡張子（ドット付き）を返します。
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat は設定値の形式名を Format に変換します。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bmp":
		return BMP, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "png", "":
		return PNG, nil
	case "pdf":
		return PDF, nil
	}
	return PNG, fmt.Errorf("unknown output format %q", s)
}

// FormatFromExt はファイル名の拡張子から形式を決めます。不明な拡張子は PNG です。
func FormatFromExt(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bmp":
		return BMP
	case ".jpeg", ".jpg":
		return JPEG
	case ".pdf":
		return PDF
	default:
		return PNG
	}
}

// Encode は img を形式 f で w に書き出します。quality は JPEG と PDF でのみ使います。
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = defaultJpegQuality
	}
	switch f {
	case BMP:
		return bmp.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case PDF:
		return encodePDF(w, img, quality)
	default:
		return png.Encode(w, img)
	}
}

// pixelsPerInch を基準にピクセルを mm に変換します。
const (
	pixelsPerInch = 96
	mmPerInch     = 25.4
)

func pixelsToMm(pixels int) float64 {
	return float64(pixels) * mmPerInch / pixelsPerInch
}

// encodePDF はキャプチャと同じ大きさのページ 1 枚の PDF を書き出します。
func encodePDF(w io.Writer, img image.Image, quality int) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("pdf: empty image")
	}
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, img, &jpeg.Options{Quality: quality}); err != nil {
		return err
	}

	wMm, hMm := pixelsToMm(b.Dx()), pixelsToMm(b.Dy())
	// "L" を指定すると幅と高さが入れ替わるため、横長でも "P" のまま
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: wMm, Ht: hMm},
	})
	pdf.SetTitle("screenshot", true)
	opt := gofpdf.ImageOptions{ImageType: "JPEG"}
	pdf.RegisterImageOptionsReader("capture", opt, &jpg)
	pdf.AddPage()
	pw, ph := pdf.GetPageSize()
	pdf.ImageOptions("capture", 0, 0, pw, ph, false, opt, 0, "")
	return pdf.Output(w)
}

// bmpFileHeaderSize は BITMAPFILEHEADER の大きさです。
const bmpFileHeaderSize = 14

// DIB は img をクリップボード（CF_DIB）用の BITMAPINFOHEADER 付きピクセル列に変換します。
// BMP ファイルからファイルヘッダーを除いたものと同じです。
func DIB(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	data := buf.Bytes()
	if len(data) < bmpFileHeaderSize {
		return nil, fmt.Errorf("bmp: short output")
	}
	return data[bmpFileHeaderSize:], nil
}
