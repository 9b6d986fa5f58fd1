package sheet

import (
	"testing"
)

const testAtlas = `
hero.png
size: 128,128
format: RGBA8888
filter: Linear,Linear
repeat: none
body
  rotate: false
  xy: 0, 0
  size: 20, 40
  orig: 20, 40
  offset: 0, 0
  index: -1
hat_plain
  rotate: false
  xy: 20, 0
  size: 10, 10
hat_straw
  rotate: true
  xy: 30, 0
  size: 16, 8
arm
  xy: 40, 0
  size: 10, 10
  orig: 12, 14
  offset: 1, 2

hero2.png
size: 64,64
tail
  bounds: 1, 2, 3, 4
  offsets: 5, 6, 7, 8
  rotate: 90
`

func TestParseAtlasPages(t *testing.T) {
	a, err := ParseAtlas([]byte(testAtlas))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(a.Pages))
	}
	if a.Pages[0] != (Page{Name: "hero.png", Width: 128, Height: 128, Filter: "Linear,Linear"}) {
		t.Errorf("page 0 = %+v", a.Pages[0])
	}
	if a.Pages[1].Name != "hero2.png" || a.Pages[1].Width != 64 {
		t.Errorf("page 1 = %+v", a.Pages[1])
	}
	if a.Len() != 5 {
		t.Errorf("Len = %d, want 5", a.Len())
	}
}

func TestParseAtlasRegions(t *testing.T) {
	a, err := ParseAtlas([]byte(testAtlas))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		want Region
	}{
		{"body", Region{Name: "body", Page: 0, X: 0, Y: 0, Width: 20, Height: 40, OrigW: 20, OrigH: 40}},
		{"hat_plain", Region{Name: "hat_plain", Page: 0, X: 20, Width: 10, Height: 10, OrigW: 10, OrigH: 10}},
		{"hat_straw", Region{Name: "hat_straw", Page: 0, X: 30, Width: 16, Height: 8, OrigW: 16, OrigH: 8, Rotated: true}},
		{"arm", Region{Name: "arm", Page: 0, X: 40, Width: 10, Height: 10, OrigW: 12, OrigH: 14, OffsetX: 1, OffsetY: 2}},
		{"tail", Region{Name: "tail", Page: 1, X: 1, Y: 2, Width: 3, Height: 4, OffsetX: 5, OffsetY: 6, OrigW: 7, OrigH: 8, Rotated: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.Region(tt.name)
			if !ok {
				t.Fatalf("region %q missing", tt.name)
			}
			if got != tt.want {
				t.Errorf("got %+v\nwant %+v", got, tt.want)
			}
		})
	}
	if _, ok := a.Region("missing"); ok {
		t.Error("missing region should not be found")
	}
}

func TestParseAtlasErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"bad number", "hero.png\nsize: 1,x\n"},
		{"wrong arity", "hero.png\nbody\n  xy: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAtlas([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
