package fjord

// windowFunc evaluates a 2-D window at local coordinates (x,y) within a
// width x height window.
type windowFunc func(x, y, w, h int) Pixel

// image is a non-owning view into an arena-backed pixel buffer: a rect plus
// a row-major slice of exactly rect.Area() pixels. Ownership of the backing
// storage belongs to the arena; the view itself is invalidated by the
// arena's Reset.
type image struct {
	rect   Rect
	pixels []Pixel
}

// init allocates rect.Area() pixels from a and binds this view to rect.
// It reports false (and leaves the view unusable) if the arena is exhausted.
func (img *image) init(rect Rect, a *arena) bool {
	img.rect = rect
	img.pixels = a.Allocate(rect.Area())
	return img.pixels != nil
}

func (img *image) Width() int    { return img.rect.Size.W }
func (img *image) Height() int   { return img.rect.Size.H }
func (img *image) Size() Size    { return img.rect.Size }
func (img *image) Origin() Point { return img.rect.Origin }
func (img *image) Rect() Rect    { return img.rect }

func (img *image) At(x, y int) Pixel {
	return img.pixels[y*img.Width()+x]
}

func (img *image) Set(x, y int, v Pixel) {
	img.pixels[y*img.Width()+x] = v
}

// Clear zeroes every pixel.
func (img *image) Clear() {
	for i := range img.pixels {
		img.pixels[i] = 0
	}
}

// Add accumulates src's pixels into this image, using src's origin (relative
// to this image's origin) as the destination offset. src must fit entirely
// within this image.
func (img *image) Add(src *image) {
	dstOriginX := src.Origin().X - img.Origin().X
	dstOriginY := src.Origin().Y - img.Origin().Y

	for y := 0; y < src.Height(); y++ {
		dstRow := (dstOriginY + y) * img.Width()
		srcRow := y * src.Width()
		for x := 0; x < src.Width(); x++ {
			img.pixels[dstRow+dstOriginX+x] += src.pixels[srcRow+x]
		}
	}
}

// Mul multiplies this image pointwise by src, which must be the same size.
func (img *image) Mul(src *image) {
	for i := range img.pixels {
		img.pixels[i] = img.pixels[i].Mul(src.pixels[i])
	}
}

// Apply replaces every pixel with fn of itself. Used for the mask-inversion
// and dither passes, which are otherwise identical full-buffer sweeps.
func (img *image) Apply(fn func(Pixel) Pixel) {
	for i := range img.pixels {
		img.pixels[i] = fn(img.pixels[i])
	}
}

// Generate fills every pixel by evaluating fn at the coordinates of this
// image's rect relative to windowRect's origin.
func (img *image) Generate(windowRect Rect, fn windowFunc) {
	originX := img.rect.Origin.X - windowRect.Origin.X
	originY := img.rect.Origin.Y - windowRect.Origin.Y

	i := 0
	for y := originY; y < originY+img.Height(); y++ {
		for x := originX; x < originX+img.Width(); x++ {
			img.pixels[i] = fn(x, y, windowRect.Size.W, windowRect.Size.H)
			i++
		}
	}
}

// affineTransform samples source at the 2x-larger translation rect into
// output, applying one of the 8 dihedral symmetries plus a contrast/
// brightness adjustment, saturating each result to [0,1]. Sampling is
// nearest-neighbour by integer division.
func affineTransform(source *image, translation Rect, contrast, brightness Pixel, symmetry Symmetry, output *image) {
	w := output.Width()
	h := output.Height()

	m := symmetryMatrices[symmetry]

	resultW, resultH := w, h
	if m.swapDims {
		resultW, resultH = h, w
	}

	m5 := m.sx * (resultW - 1)
	m6 := m.sy * (resultH - 1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcX := x*translation.Size.W/w + translation.Origin.X
			srcY := y*translation.Size.H/h + translation.Origin.Y
			pixel := source.At(srcX, srcY)

			dstX := x*m.a + y*m.b + m5
			dstY := x*m.c + y*m.d + m6

			output.Set(dstX, dstY, (contrast.Mul(pixel) + brightness).Clamp())
		}
	}
}

// expandBorders fills output by sampling source with its coordinates
// clamped to source's bounds, replicating edge pixels.
func expandBorders(source, output *image) {
	originX := output.Origin().X - source.Origin().X
	originY := output.Origin().Y - source.Origin().Y

	for y := 0; y < output.Height(); y++ {
		srcY := clampInt(y+originY, 0, source.Height()-1)
		for x := 0; x < output.Width(); x++ {
			srcX := clampInt(x+originX, 0, source.Width()-1)
			output.Set(x, y, source.At(srcX, srcY))
		}
	}
}

// cropResizeAdjust samples source at crop with nearest-neighbour resizing
// into output, then applies contrast/brightness, saturating to [0,1].
func cropResizeAdjust(source *image, crop Rect, contrast, brightness Pixel, output *image) {
	w := output.Width()
	h := output.Height()

	for y := 0; y < h; y++ {
		srcY := y*crop.Size.H/h + crop.Origin.Y
		for x := 0; x < w; x++ {
			srcX := x*crop.Size.W/w + crop.Origin.X
			pixel := source.At(srcX, srcY)
			output.Set(x, y, (contrast.Mul(pixel) + brightness).Clamp())
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// YUV -> RGB coefficients (ITU-R BT.601-like, center offset 0.5).
var (
	coeffRFromU = pixelFromFloat(2.03211)
	coeffGFromU = pixelFromFloat(0.39465)
	coeffGFromV = pixelFromFloat(0.58060)
	coeffBFromV = pixelFromFloat(1.13983)
)

func pixelFromFloat(f float64) Pixel {
	return Pixel(f * (1 << pixelFracBits))
}

// convertYUV444ToRGB888 writes y/u/v (all the same size) into dst as
// interleaved RGB888, starting at dst[0] and advancing by pitch bytes
// between rows.
func convertYUV444ToRGB888(y, u, v *image, dst []byte, pitch int) {
	width := y.Width()
	height := y.Height()
	rowSkip := pitch - width*3

	off := 0
	for cy := 0; cy < height; cy++ {
		for cx := 0; cx < width; cx++ {
			yy := y.At(cx, cy)
			uu := u.At(cx, cy) - pixelHalf
			vv := v.At(cx, cy) - pixelHalf

			dst[off+0] = (yy + uu.Mul(coeffRFromU)).ToUint8()
			dst[off+1] = (yy - uu.Mul(coeffGFromU) - vv.Mul(coeffGFromV)).ToUint8()
			dst[off+2] = (yy + vv.Mul(coeffBFromV)).ToUint8()
			off += 3
		}
		off += rowSkip
	}
}

// clearRGB888 zeroes a width x height RGB888 region of dst, skipping the
// pitch-width*3 trailing bytes of each row.
func clearRGB888(dst []byte, width, height, pitch int) {
	rowSkip := pitch - width*3
	off := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width*3; x++ {
			dst[off] = 0
			off++
		}
		off += rowSkip
	}
}
