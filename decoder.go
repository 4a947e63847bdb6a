package fjord

// Buffer slots. The two IFS buffers ping-pong across iterations; the mask
// buffer accumulates per-block windows once per Load; the three output
// buffers hold the cropped/adjusted Y, U and V planes a Decode call writes.
const (
	bufferIFS1st = iota
	bufferIFS2nd
	bufferIFSMask
	bufferIFSCount
	bufferOutputChannelY = bufferIFSCount + 0
	bufferOutputChannelU = bufferIFSCount + 1
	bufferOutputChannelV = bufferIFSCount + 2
	bufferCount          = bufferIFSCount + 3
)

// expandFactor is overlapFactorDenominator^2: the worst-case blow-up a
// bordered block window can add over its unbordered area.
const expandFactor = overlapFactorDenominator * overlapFactorDenominator

// arenaCapacity sizes the pixel arena to hold bufferCount full-canvas
// buffers, one more full buffer of slack for the largest single block
// window, and a fraction of a buffer for the windows/borders of the
// remaining blocks, all at the largest image size the container header
// allows.
const arenaCapacity = maxBufferPixels * (bufferCount + 1 + (expandFactor+4)/expandFactor)

const randomSeed = 1337

// noiseIntensityLog2 sets the dither amplitude to 1/16 of full scale.
const noiseIntensityLog2 = 4

// PixelFormat names an output pixel layout for Decode.
type PixelFormat int

// PixelFormatRGB888 is the only pixel format this decoder writes.
const PixelFormatRGB888 PixelFormat = iota

// Decoder holds the working state for one IFS image: its arena, its
// PRNG, and the container's parsed geometry and range blocks. A Decoder is
// reused across images by calling Reset and then Load. All pixel buffers
// come from the arena allocated at construction; Load still allocates the
// parsed range-block table and node bitstring on the Go heap.
type Decoder struct {
	arena  *arena
	random randomGenerator

	channels      [maxChannelsCount]channelHeader
	channelsCount int

	regions     [maxRegionsCount]Rect
	regionCount int

	canvasSize Size
	outputSize Size

	blocks []rangeBlock

	buffers          [bufferCount]image
	lastOutputBuffer int

	ready bool
}

// NewDecoder allocates a Decoder's pixel arena and returns it ready for use.
func NewDecoder() *Decoder {
	d := &Decoder{arena: newArena(arenaCapacity)}
	d.Reset()
	return d
}

// Reset clears decoder state and reseeds the dither generator, discarding
// any image loaded by a previous Load. A Decoder constructed by NewDecoder
// does not need an initial Reset; it is provided for reuse across images.
func (d *Decoder) Reset() {
	d.random.Init(randomSeed)
	d.lastOutputBuffer = bufferIFS1st
	d.ready = false
}

// Load parses an IFS container and prepares the decoder to reconstruct it.
// target is the caller's desired output bounding box: Decode writes the
// image scaled down (never up) from the container's declared image size to
// fit within target while preserving aspect ratio, at the top-left of dst.
// source is the container's declared image size, before that scaling.
// iterations is the number of affine passes the
// container calls for; pass it straight through to Decode, or fewer for a
// cheaper, lower-fidelity preview.
//
// On error, iterations is 0 and source is the zero Size; no partial state
// from a failed Load carries over; Decode remains a safe no-op until the
// next successful Load.
func (d *Decoder) Load(data []byte, target Size) (iterations int, source Size, err error) {
	d.ready = false
	d.arena.Reset()

	pc, err := parseContainer(data)
	if err != nil {
		return 0, Size{}, err
	}

	d.channels = pc.channels
	d.channelsCount = pc.channelsCount
	d.regions = pc.regions
	d.regionCount = pc.regionCount
	d.canvasSize = pc.canvasSize
	d.blocks = pc.blocks
	d.outputSize = computeOutputSize(target, pc.headerSize)

	if _, _, err := decodeQuadtree(d.arena, pc.nodes, pc.cols, pc.rows, 1<<uint(pc.step), pc.depth, d.blocks); err != nil {
		return 0, Size{}, err
	}

	canvasRect := NewRect(0, 0, d.canvasSize.W, d.canvasSize.H)
	for i := 0; i < bufferIFSCount; i++ {
		if !d.buffers[i].init(canvasRect, d.arena) {
			return 0, Size{}, ErrArenaExhausted
		}
	}
	outputRect := NewRect(0, 0, d.outputSize.W, d.outputSize.H)
	for i := 0; i < d.channelsCount; i++ {
		if !d.buffers[bufferOutputChannelY+i].init(outputRect, d.arena) {
			return 0, Size{}, ErrArenaExhausted
		}
	}

	if err := d.buildMask(); err != nil {
		return 0, Size{}, err
	}

	d.lastOutputBuffer = bufferIFS1st
	d.ready = true
	return pc.iterationCount, pc.headerSize, nil
}

// buildMask allocates each block's bordered window and accumulates it into
// the shared mask buffer, then inverts the mask in place so that iterate
// can later recover a flat-weighted sum with one multiply per pixel.
//
// Each block's window is clipped first by the canvas area, then by
// whichever region has the strictly largest intersection with that
// clipped rect; a tie keeps the earliest-indexed region, matching the
// natural left-to-right scan order rather than an explicit tie-break.
func (d *Decoder) buildMask() error {
	mask := &d.buffers[bufferIFSMask]
	mask.Clear()

	for i := range d.blocks {
		block := &d.blocks[i]
		origin := block.originalImage.Rect()
		block.transform.geometry.Size = Size{W: origin.Size.W << 1, H: origin.Size.H << 1}

		bordered := windowSize(origin)
		clipped := bordered.Intersect(mask.Rect())

		best := Rect{}
		for r := 0; r < d.regionCount; r++ {
			if candidate := clipped.Intersect(d.regions[r]); candidate.Area() > best.Area() {
				best = candidate
			}
		}
		if best.IsNull() {
			best = clipped
		}

		if !block.windowImage.init(best, d.arena) {
			return ErrArenaExhausted
		}
		block.windowImage.Generate(bordered, windowFunction)

		if !block.borderedImage.init(best, d.arena) {
			return ErrArenaExhausted
		}

		mask.Add(&block.windowImage)
	}

	mask.Apply(Pixel.Reciprocal)
	return nil
}

// iterate runs numIterations affine passes over the loaded blocks, ping-
// ponging between the two IFS buffers, and returns the resulting canvas.
// With numIterations == 0 it returns the buffer the last pass wrote (the
// zeroed first IFS buffer if no pass has run since Load), never nil, so a
// zero-iteration Decode call still converts a defined canvas.
func (d *Decoder) iterate(numIterations int) *image {
	mask := &d.buffers[bufferIFSMask]
	result := &d.buffers[d.lastOutputBuffer]

	for n := 0; n < numIterations; n++ {
		input := &d.buffers[d.lastOutputBuffer]
		outputIndex := bufferIFS2nd - d.lastOutputBuffer
		output := &d.buffers[outputIndex]
		output.Clear()

		for i := range d.blocks {
			block := &d.blocks[i]
			affineTransform(input, block.transform.geometry, block.transform.contrast, block.transform.brightness, block.transform.symmetry, &block.originalImage)
			expandBorders(&block.originalImage, &block.borderedImage)
			block.borderedImage.Mul(&block.windowImage)
			output.Add(&block.borderedImage)
		}

		output.Mul(mask)
		output.Apply(d.ditherPixel)

		d.lastOutputBuffer = outputIndex
		result = output
	}

	return result
}

// ditherPixel adds a small centered noise term to break up banding left by
// the windowed accumulation, exactly reproducing the original integer
// arithmetic rather than a resampled float approximation.
func (d *Decoder) ditherPixel(p Pixel) Pixel {
	const noiseIntensity = 1 << noiseIntensityLog2
	n := int32(d.random.Rand()&(noiseIntensity-1)) - noiseIntensity/2
	return p + Pixel(n)
}

// Decode runs numIterations affine passes and writes the result into dst as
// format, a width x height image with pitch bytes between rows. Decode is a
// guaranteed no-op — dst is cleared to black and nil is returned — if no
// Load has succeeded since the last Reset.
//
// format must be PixelFormatRGB888; any other value is ErrUnsupportedPixelFormat.
func (d *Decoder) Decode(numIterations int, format PixelFormat, dst []byte, width, height, pitch int) error {
	if !d.ready {
		clearRGB888(dst, width, height, pitch)
		return nil
	}
	if format != PixelFormatRGB888 {
		return ErrUnsupportedPixelFormat
	}

	decoded := d.iterate(numIterations)
	rects := channelRects(decoded.Width(), decoded.Height())

	for i := 0; i < d.channelsCount; i++ {
		contrast, brightness := channelAdjustment(d.channels[i])
		cropResizeAdjust(decoded, rects[i], contrast, brightness, &d.buffers[bufferOutputChannelY+i])
	}

	clearRGB888(dst, width, height, pitch)
	convertYUV444ToRGB888(&d.buffers[bufferOutputChannelY], &d.buffers[bufferOutputChannelU], &d.buffers[bufferOutputChannelV], dst, pitch)
	return nil
}
