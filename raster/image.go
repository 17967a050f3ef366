package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ToImage mirrors the to_image pass: each cell's encoded triangle index is
// broadcast into all four channels. Indices above 0xffff saturate.
func ToImage(vis *Visibility) *image.RGBA64 {
	size := int(vis.Size())
	img := image.NewRGBA64(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			id := uint16(min(vis.At(uint32(x), uint32(y)), 0xffff))
			img.SetRGBA64(x, y, color.RGBA64{R: id, G: id, B: id, A: id})
		}
	}
	return img
}

// Downscale resamples a visibility image to an outputSize square. Nearest
// neighbour sampling keeps every texel a real triangle index, which
// interpolating filters would not.
func Downscale(src image.Image, outputSize int) *image.RGBA64 {
	dst := image.NewRGBA64(image.Rect(0, 0, outputSize, outputSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Colorize renders a visibility image with one opaque color per triangle
// and transparent cells where nothing was drawn. It is meant for previews.
func Colorize(src *image.RGBA64) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			id := src.RGBA64At(x, y).R
			if id == 0 {
				continue
			}
			out.SetNRGBA(x, y, Palette(uint32(id)))
		}
	}
	return out
}

// Palette returns a stable, well-spread color for an encoded triangle index.
func Palette(id uint32) color.NRGBA {
	h := id * 2654435761
	return color.NRGBA{
		R: 64 + uint8(h>>24)%192,
		G: 64 + uint8(h>>16)%192,
		B: 64 + uint8(h>>8)%192,
		A: 0xff,
	}
}
