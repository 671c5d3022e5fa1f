package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

// RenderImage draws img in a cols x rows cell box using upper half blocks:
// each cell shows two vertically stacked pixels.
func RenderImage(img image.Image, cols, rows int) string {
	if img == nil || img.Bounds().Empty() || cols <= 0 || rows <= 0 {
		return ""
	}

	fitted := imaging.Fit(img, cols, rows*2, imaging.Box)
	b := fitted.Bounds()

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := fitted.NRGBAAt(x, y)
			bottom := top
			if y+1 < b.Max.Y {
				bottom = fitted.NRGBAAt(x, y+1)
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render("▀"))
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexColor(c color.NRGBA) lipgloss.Color {
	const digits = "0123456789abcdef"
	buf := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		buf[1+i*2] = digits[v>>4]
		buf[2+i*2] = digits[v&0x0f]
	}
	return lipgloss.Color(string(buf))
}
