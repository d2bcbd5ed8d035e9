package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
)

var framePalette = color.Palette{color.Black, color.RGBA{0x3d, 0xdc, 0x84, 0xff}}

// Image rasterises the canvas with each braille cell taking charW x charH
// pixels.
func (c *Canvas) Image(charW, charH int) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), framePalette)
	dotW, dotH := max(charW/2, 1), max(charH/4, 1)
	c.Each(func(x, y int) {
		x0, y0 := x*dotW, y*dotH
		for py := 0; py < dotH; py++ {
			for px := 0; px < dotW; px++ {
				img.SetColorIndex(x0+px, y0+py, 1)
			}
		}
	})
	return img
}

// WriteGIF encodes frames as a looping animation, delay in 1/100 s.
func WriteGIF(w io.Writer, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

// SaveGIF writes frames to path.
func SaveGIF(path string, frames []*image.Paletted, delay int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGIF(f, frames, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
