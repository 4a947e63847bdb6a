package fjord

// overlapFactorDenominator controls how far each range block's smoothing
// border extends past its own edges: border = blockSize/overlapFactorDenominator
// on every side, i.e. 1/4 = 25% overlap between adjacent blocks.
const overlapFactorDenominator = 4

var windowFactor = PixelFromInt(1 + overlapFactorDenominator/2)

const pixelHalf Pixel = PixelOne / 2

// trapezoidalKernel1D is the one-dimensional kernel underlying the window:
// a plateau at 1 around the midpoint with quadratic falloff to 0 at the
// edges, widened by roiFactor so overlapping blocks sum back to a flat mask.
func trapezoidalKernel1D(t, roiFactor Pixel) Pixel {
	diff := (t - pixelHalf).Abs()
	v := (PixelOne - diff.Mul(PixelFromInt(2))).Mul(roiFactor).Clamp()
	return v.Mul(v)
}

// windowSize returns the bordered rect a trapezoidal window is defined over,
// given a range block's own (unbordered) rect.
func windowSize(roi Rect) Rect {
	return roi.Expand(Size{
		W: roi.Size.W / overlapFactorDenominator,
		H: roi.Size.H / overlapFactorDenominator,
	})
}

// windowFunction evaluates the 2-D trapezoidal window at (x,y) within a
// width x height window.
func windowFunction(x, y, width, height int) Pixel {
	tx := PixelFromInt(x).DivInt(width)
	ty := PixelFromInt(y).DivInt(height)
	return trapezoidalKernel1D(tx, windowFactor).Mul(trapezoidalKernel1D(ty, windowFactor))
}
