// Package fjord implements a pure Go decoder for the fjord fractal image
// container: a compact bitstream describing a partitioned Iterated Function
// System (IFS) over quad-tree range blocks, reconstructed by affine contractive
// maps, deblocking windows, and YUV420 color conversion.
//
// This package only decodes; there is no encoder.
//
// Decoding:
//
//	dec := fjord.NewDecoder()
//	dec.Reset()
//	iterations, source, err := dec.Load(data, fjord.Size{W: 320, H: 240})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	buf := make([]byte, source.W*source.H*3)
//	err = dec.Decode(iterations, fjord.PixelFormatRGB888, buf, source.W, source.H, source.W*3)
package fjord
