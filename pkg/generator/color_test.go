package generator

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#1a1a2e", color.NRGBA{0x1a, 0x1a, 0x2e, 0xff}, false},
		{"1a1a2e", color.NRGBA{0x1a, 0x1a, 0x2e, 0xff}, false},
		{"#00000078", color.NRGBA{0, 0, 0, 0x78}, false},
		{"#FFFFFF", color.NRGBA{0xff, 0xff, 0xff, 0xff}, false},
		{"#fff", color.NRGBA{}, true},
		{"#gg0000", color.NRGBA{}, true},
		{"#0000000", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseColor(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorRandomIsOpaque(t *testing.T) {
	for _, in := range []string{"", "random"} {
		c, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if c.A != 255 {
			t.Errorf("ParseColor(%q) alpha = %d, want 255", in, c.A)
		}
	}
}

func TestNewSolidImage(t *testing.T) {
	c := color.NRGBA{10, 20, 30, 255}
	img := NewSolidImage(4, 3, c)
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{10, 20, 30, 255}) {
				t.Fatalf("pixel (%d,%d) = %v", x, y, got)
			}
		}
	}
}
