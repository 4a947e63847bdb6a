package fjord

// Container header layout and limits. The container wraps a single IFS
// codestream ("FJRD") inside an outer image envelope ("PIFS"/"IYUV") that
// carries the per-channel brightness/contrast post-adjustment and declares
// the source and eventual output dimensions.
const (
	containerVersion = 2
	expectedGamma    = 0xFFFF

	// MaxImageDimension bounds a container header's declared image area:
	// width*height may not exceed MaxImageDimension squared (each dimension
	// alone is not checked). Passing a target at least this large to
	// Decoder.Load decodes at the container's native size whenever neither
	// declared dimension exceeds MaxImageDimension, since the only-downscale
	// rule in computeOutputSize then never needs to shrink.
	MaxImageDimension = 3092

	maxImageSize     = MaxImageDimension
	maxChannelsCount = 3
	maxRegionsCount  = 3
	maxBlocksCount   = 8192
	maxBufferPixels  = maxImageSize * maxImageSize

	contrastBits   = 5
	brightnessBits = 8
)

// imageHeader is the outer envelope's fixed 20-byte header.
type imageHeader struct {
	signature     uint32
	version       uint32
	codec         uint32
	width         uint16
	height        uint16
	channelsCount uint8
	imageCount    uint8
	gamma         uint16
}

// channelHeader carries a channel's post-decode brightness/contrast
// adjustment, expressed as raw Q16 fractions of full scale.
type channelHeader struct {
	brightnessShift uint16
	contrastShift   uint16
}

// ifsHeader is the inner codestream's fixed 28-byte header.
type ifsHeader struct {
	version        uint32
	profileLevel   uint32
	cols           uint16
	rows           uint16
	step           uint8
	depth          uint8
	iterationCount uint8
	regionCount    uint16
	blockCount     uint32
	nodeCount      uint32
}

// parsedContainer is the fully decoded, but not yet arena-allocated, result
// of reading a container: everything needed to drive the quad-tree walk and
// the iteration engine.
type parsedContainer struct {
	// headerSize is the display image size declared by the envelope
	// header: what Load reports back as the source size, and the basis
	// for the caller's requested-size scaling.
	headerSize Size
	// canvasSize is the packed YUV420 raster the IFS itself reconstructs
	// (cols*blockSize x rows*blockSize); it is usually larger than
	// headerSize since it carries the chroma planes alongside luma.
	canvasSize Size

	channels      [maxChannelsCount]channelHeader
	channelsCount int

	cols, rows, step, depth, iterationCount int
	regionCount                             int
	regions                                 [maxRegionsCount]Rect

	blocks []rangeBlock
	nodes  []int
}

func fourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

func signExtend(raw uint32, bits uint) int32 {
	v := int32(raw)
	if v&(1<<(bits-1)) != 0 {
		v -= 1 << bits
	}
	return v
}

// ceilLog2 returns the smallest k such that 1<<k >= n, for n >= 1.
func ceilLog2(n int) int {
	k := 0
	v := 1
	for v < n {
		v <<= 1
		k++
	}
	return k
}

func parseImageHeader(c *cursor) (imageHeader, error) {
	var h imageHeader
	sig, err := c.readU32()
	if err != nil {
		return h, err
	}
	h.signature = sig
	if h.signature != fourCC('P', 'I', 'F', 'S') {
		return h, ErrInvalidSignature
	}

	version, err := c.readU32()
	if err != nil {
		return h, err
	}
	h.version = version
	if h.version != containerVersion {
		return h, ErrInvalidVersion
	}

	codec, err := c.readU32()
	if err != nil {
		return h, err
	}
	h.codec = codec
	if h.codec != fourCC('I', 'Y', 'U', 'V') {
		return h, ErrInvalidCodec
	}

	if h.width, err = c.readU16(); err != nil {
		return h, err
	}
	if h.height, err = c.readU16(); err != nil {
		return h, err
	}
	if h.channelsCount, err = c.readU8(); err != nil {
		return h, err
	}
	if h.channelsCount != maxChannelsCount {
		return h, ErrUnsupportedChannelCount
	}
	if h.imageCount, err = c.readU8(); err != nil {
		return h, err
	}
	if h.imageCount != 1 {
		return h, ErrUnsupportedImageCount
	}
	if h.gamma, err = c.readU16(); err != nil {
		return h, err
	}
	if h.gamma != expectedGamma {
		return h, ErrUnsupportedGamma
	}
	return h, nil
}

func parseChannelHeader(c *cursor) (channelHeader, error) {
	var ch channelHeader
	var err error
	if ch.brightnessShift, err = c.readU16(); err != nil {
		return ch, err
	}
	if ch.contrastShift, err = c.readU16(); err != nil {
		return ch, err
	}
	return ch, nil
}

func parseIFSHeader(c *cursor) (ifsHeader, error) {
	var h ifsHeader
	sig, err := c.readU32()
	if err != nil {
		return h, err
	}
	if sig != fourCC('F', 'J', 'R', 'D') {
		return h, ErrInvalidIFSSignature
	}

	if h.version, err = c.readU32(); err != nil {
		return h, err
	}
	if h.profileLevel, err = c.readU32(); err != nil {
		return h, err
	}
	if h.cols, err = c.readU16(); err != nil {
		return h, err
	}
	if h.rows, err = c.readU16(); err != nil {
		return h, err
	}
	if h.step, err = c.readU8(); err != nil {
		return h, err
	}
	if h.depth, err = c.readU8(); err != nil {
		return h, err
	}
	if h.iterationCount, err = c.readU8(); err != nil {
		return h, err
	}
	if err = c.skip(1); err != nil { // reserved pad byte
		return h, err
	}
	if h.regionCount, err = c.readU16(); err != nil {
		return h, err
	}
	if h.regionCount > maxRegionsCount {
		return h, ErrTooManyRegions
	}
	if err = c.skip(2); err != nil { // reserved pad bytes
		return h, err
	}
	if h.blockCount, err = c.readU32(); err != nil {
		return h, err
	}
	if h.blockCount > maxBlocksCount {
		return h, ErrTooManyBlocks
	}
	if h.nodeCount, err = c.readU32(); err != nil {
		return h, err
	}
	if h.nodeCount > maxBlocksCount {
		return h, ErrTooManyNodes
	}
	return h, nil
}

func parseRegion(c *cursor, step uint8) (Rect, error) {
	var x, y, w, hgt uint16
	var err error
	if x, err = c.readU16(); err != nil {
		return Rect{}, err
	}
	if y, err = c.readU16(); err != nil {
		return Rect{}, err
	}
	if w, err = c.readU16(); err != nil {
		return Rect{}, err
	}
	if hgt, err = c.readU16(); err != nil {
		return Rect{}, err
	}
	shift := uint(step)
	return NewRect(int(x)<<shift, int(y)<<shift, int(w)<<shift, int(hgt)<<shift), nil
}

// parseBlockBitfield decodes a 32-bit LSB-first range-block record:
// contrast(5, signed) | transform(3) | brightness(8, signed) | offsetX(8) | offsetY(8).
func parseBlockBitfield(v uint32, ifsWidth, ifsHeight int) transform {
	contrastRaw := signExtend(v&0x1F, contrastBits)
	symmetryRaw := (v >> 5) & 0x7
	brightnessRaw := signExtend((v>>8)&0xFF, brightnessBits)
	offsetX := int((v >> 16) & 0xFF)
	offsetY := int((v >> 24) & 0xFF)

	contrast := dequantize(contrastRaw, PixelOne, contrastBits)
	maxBrightness := PixelOne + contrast.Abs()
	brightness := dequantize(brightnessRaw, maxBrightness, brightnessBits)

	qx := max(ceilLog2(ifsWidth)-8, 1)
	qy := max(ceilLog2(ifsHeight)-8, 1)

	return transform{
		geometry:   Rect{Origin: Point{X: offsetX << uint(qx), Y: offsetY << uint(qy)}},
		contrast:   contrast,
		brightness: brightness,
		symmetry:   Symmetry(symmetryRaw),
	}
}

// dequantize maps a signed bitfield value back onto [-maxValue, maxValue],
// matching the encoder's linear quantizer of the given bit width.
func dequantize(qValue int32, maxValue Pixel, bits uint) Pixel {
	quantizer := int(1<<(bits-1)) - 1
	return maxValue.MulInt(int(qValue)).DivInt(quantizer)
}

// computeOutputSize scales headerSize down to fit within requested,
// enforcing the only-downscale rule: the decoded image is never upsampled
// past its declared native resolution, only shrunk to fit inside the
// caller's requested bounds while preserving aspect ratio.
func computeOutputSize(requested, headerSize Size) Size {
	const one = int64(1) << 16

	scaleW := (int64(requested.W) << 16) / int64(headerSize.W)
	scaleH := (int64(requested.H) << 16) / int64(headerSize.H)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	if scale >= one {
		return headerSize
	}
	return Size{
		W: int(scale * int64(headerSize.W) >> 16),
		H: int(scale * int64(headerSize.H) >> 16),
	}
}

// parseContainer reads the full envelope + IFS codestream from data. It
// validates every structural invariant explicitly; malformed input never
// panics, it returns a sentinel error. Range-block geometry.Size is left
// zero here: the quad-tree walk fills it in once block leaves are paired
// with their destination tile.
func parseContainer(data []byte) (*parsedContainer, error) {
	c := newCursor(data)

	img, err := parseImageHeader(c)
	if err != nil {
		return nil, err
	}
	if int(img.width)*int(img.height) > maxBufferPixels {
		return nil, ErrImageTooLarge
	}

	pc := &parsedContainer{
		headerSize:    Size{W: int(img.width), H: int(img.height)},
		channelsCount: int(img.channelsCount),
	}
	for i := 0; i < pc.channelsCount; i++ {
		ch, err := parseChannelHeader(c)
		if err != nil {
			return nil, err
		}
		pc.channels[i] = ch
	}

	ifs, err := parseIFSHeader(c)
	if err != nil {
		return nil, err
	}
	pc.cols = int(ifs.cols)
	pc.rows = int(ifs.rows)
	pc.step = int(ifs.step)
	pc.depth = int(ifs.depth)
	pc.iterationCount = int(ifs.iterationCount)
	pc.regionCount = int(ifs.regionCount)

	canvasWidth := pc.cols << uint(pc.step)
	canvasHeight := pc.rows << uint(pc.step)
	pc.canvasSize = Size{W: canvasWidth, H: canvasHeight}

	for i := 0; i < pc.regionCount; i++ {
		region, err := parseRegion(c, ifs.step)
		if err != nil {
			return nil, err
		}
		pc.regions[i] = region
	}

	pc.blocks = make([]rangeBlock, ifs.blockCount)
	for i := range pc.blocks {
		raw, err := c.readU32()
		if err != nil {
			return nil, err
		}
		pc.blocks[i].transform = parseBlockBitfield(raw, canvasWidth, canvasHeight)
	}

	nodeBytes := (int(ifs.nodeCount) + 7) / 8
	rawNodes, err := c.readBytes(nodeBytes)
	if err != nil {
		return nil, err
	}
	pc.nodes = make([]int, ifs.nodeCount)
	for i := range pc.nodes {
		byteIndex := i / 8
		bitIndex := uint(i % 8)
		if rawNodes[byteIndex]&(1<<bitIndex) != 0 {
			pc.nodes[i] = 1
		}
	}

	return pc, nil
}
