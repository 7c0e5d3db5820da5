package output

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"bmp", BMP, false},
		{"JPEG", JPEG, false},
		{"jpg", JPEG, false},
		{"png", PNG, false},
		{"", PNG, false},
		{"pdf", PDF, false},
		{"tiff", PNG, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := map[string]Format{
		"a.bmp":       BMP,
		"a.BMP":       BMP,
		"a.jpeg":      JPEG,
		"a.jpg":       JPEG,
		"a.png":       PNG,
		"a.pdf":       PDF,
		"a.webp":      PNG,
		"no_ext":      PNG,
		"dir.bmp/pic": PNG,
	}
	for name, want := range tests {
		if got := FormatFromExt(name); got != want {
			t.Errorf("FormatFromExt(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	for f, want := range map[Format]string{BMP: ".bmp", JPEG: ".jpeg", PNG: ".png", PDF: ".pdf", Format(42): ".png"} {
		if got := f.Ext(); got != want {
			t.Errorf("%d.Ext() = %q, want %q", int(f), got, want)
		}
	}
}

func TestDIB(t *testing.T) {
	img := testImage(3, 2)
	dib, err := DIB(img)
	if err != nil {
		t.Fatal(err)
	}
	le := func(b []byte) int { return int(b[0]) | int(b[1])<<8 | int(b[2])<<16 | int(b[3])<<24 }
	if got := le(dib[0:4]); got != 40 {
		t.Errorf("biSize = %d, want 40", got)
	}
	if w, h := le(dib[4:8]), le(dib[8:12]); w != 3 || h != 2 {
		t.Errorf("size = %dx%d, want 3x2", w, h)
	}
}
