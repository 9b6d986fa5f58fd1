package sheet

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Region describes a sub-rectangle within an atlas page.
type Region struct {
	Name string
	Page int
	// X and Y are the top-left corner of the region within its page.
	X, Y int
	// Width and Height are the upright size of the packed image. A rotated
	// region occupies Height x Width pixels on the page.
	Width, Height int
	// OrigW and OrigH are the untrimmed size as authored.
	OrigW, OrigH int
	// OffsetX and OffsetY place the trimmed image inside the original
	// rectangle, measured from its top-left corner.
	OffsetX, OffsetY int
	// Rotated is true if the region is stored 90 degrees clockwise.
	Rotated bool
}

// Page is one texture of an atlas.
type Page struct {
	// Name is the image file name, relative to the atlas file.
	Name          string
	Width, Height int
	Filter        string
}

// Atlas is a parsed text atlas: a list of pages and the named regions
// packed into them.
type Atlas struct {
	Pages   []Page
	regions map[string]Region
}

// Region returns the region with the given name.
func (a *Atlas) Region(name string) (Region, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// ParseAtlas parses the libGDX/Spine text atlas format:
//
//	hero.png
//	size: 512,512
//	filter: Linear,Linear
//	head
//	  rotate: false
//	  xy: 2, 2
//	  size: 64, 64
//	  orig: 64, 64
//	  offset: 0, 0
//
// A blank line ends a page. Both the legacy "xy"/"size" keys and the newer
// "bounds"/"offsets" keys are understood; unknown keys are ignored.
func ParseAtlas(data []byte) (*Atlas, error) {
	a := &Atlas{regions: make(map[string]Region)}
	sc := bufio.NewScanner(bytes.NewReader(data))

	var (
		page    = -1
		region  *Region
		newPage = true
		lineNo  int
	)
	flush := func() {
		if region == nil {
			return
		}
		if region.OrigW == 0 && region.OrigH == 0 {
			region.OrigW, region.OrigH = region.Width, region.Height
		}
		a.regions[region.Name] = *region
		region = nil
	}

	for sc.Scan() {
		lineNo++
		raw := strings.TrimRight(sc.Text(), " \t\r")
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			newPage = true
			continue
		}

		key, value, isPair := strings.Cut(line, ":")
		if !isPair {
			if newPage {
				flush()
				a.Pages = append(a.Pages, Page{Name: line})
				page = len(a.Pages) - 1
				newPage = false
				continue
			}
			flush()
			region = &Region{Name: line, Page: page}
			continue
		}
		if page < 0 {
			return nil, fmt.Errorf("sheet: atlas line %d: property before first page", lineNo)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if region == nil {
			if err := applyPageKey(&a.Pages[page], key, value); err != nil {
				return nil, fmt.Errorf("sheet: atlas line %d: %w", lineNo, err)
			}
			continue
		}
		if err := applyRegionKey(region, key, value); err != nil {
			return nil, fmt.Errorf("sheet: atlas line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sheet: read atlas: %w", err)
	}
	flush()
	if len(a.Pages) == 0 {
		return nil, fmt.Errorf("sheet: atlas has no pages")
	}
	return a, nil
}

func applyPageKey(p *Page, key, value string) error {
	switch key {
	case "size":
		v, err := ints(value, 2)
		if err != nil {
			return err
		}
		p.Width, p.Height = v[0], v[1]
	case "filter":
		p.Filter = value
	}
	return nil
}

func applyRegionKey(r *Region, key, value string) error {
	switch key {
	case "rotate":
		// Legacy atlases write true/false; newer ones write the angle.
		r.Rotated = value == "true" || value == "90"
	case "xy":
		v, err := ints(value, 2)
		if err != nil {
			return err
		}
		r.X, r.Y = v[0], v[1]
	case "size":
		v, err := ints(value, 2)
		if err != nil {
			return err
		}
		r.Width, r.Height = v[0], v[1]
	case "bounds":
		v, err := ints(value, 4)
		if err != nil {
			return err
		}
		r.X, r.Y, r.Width, r.Height = v[0], v[1], v[2], v[3]
	case "orig":
		v, err := ints(value, 2)
		if err != nil {
			return err
		}
		r.OrigW, r.OrigH = v[0], v[1]
	case "offset":
		v, err := ints(value, 2)
		if err != nil {
			return err
		}
		r.OffsetX, r.OffsetY = v[0], v[1]
	case "offsets":
		v, err := ints(value, 4)
		if err != nil {
			return err
		}
		r.OffsetX, r.OffsetY, r.OrigW, r.OrigH = v[0], v[1], v[2], v[3]
	}
	return nil
}

func ints(value string, n int) ([]int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values, got %q", n, value)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad number %q", p)
		}
		out[i] = v
	}
	return out, nil
}
