package fjord

import "testing"

// buildYUVContainer assembles a minimal valid 3-channel container whose
// outer image size equals its IFS canvas size, tiled by cols*rows identity
// blocks covering the canvas exactly (depth 0, so no quad-tree node bits
// are consumed: every grid cell is an implicit leaf).
func buildYUVContainer(t *testing.T, cols, rows, step, iterations int) []byte {
	t.Helper()
	var buf []byte

	buf = appendU32(buf, fourCC('P', 'I', 'F', 'S'))
	buf = appendU32(buf, containerVersion)
	buf = appendU32(buf, fourCC('I', 'Y', 'U', 'V'))
	buf = appendU16(buf, uint16(cols<<uint(step)))
	buf = appendU16(buf, uint16(rows<<uint(step)))
	buf = append(buf, 3) // channelsCount
	buf = append(buf, 1) // imageCount
	buf = appendU16(buf, expectedGamma)

	for i := 0; i < 3; i++ {
		buf = appendU16(buf, 0)      // brightnessShift
		buf = appendU16(buf, 0xFFFF) // contrastShift: identity
	}

	buf = appendU32(buf, fourCC('F', 'J', 'R', 'D'))
	buf = appendU32(buf, 1) // version
	buf = appendU32(buf, 0) // profileLevel
	buf = appendU16(buf, uint16(cols))
	buf = appendU16(buf, uint16(rows))
	buf = append(buf, byte(step))
	buf = append(buf, 0) // depth
	buf = append(buf, byte(iterations))
	buf = append(buf, 0)    // pad
	buf = appendU16(buf, 0) // regionCount
	buf = append(buf, 0, 0) // pad

	blockCount := cols * rows
	buf = appendU32(buf, uint32(blockCount))
	buf = appendU32(buf, 0) // nodeCount

	for i := 0; i < blockCount; i++ {
		buf = appendU32(buf, 15) // contrast=15/15 (identity gain), everything else 0
	}

	return buf
}

func TestDecoderDecodeBeforeLoadIsBlackFrame(t *testing.T) {
	d := NewDecoder()
	dst := make([]byte, 16*16*3)
	for i := range dst {
		dst[i] = 0xAB
	}
	if err := d.Decode(1, PixelFormatRGB888, dst, 16, 16, 48); err != nil {
		t.Fatalf("Decode before Load: %v", err)
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %#x, want 0 (black frame with no prior Load)", i, v)
		}
	}
}

func TestDecoderLoadThenDecodeProducesFullFrame(t *testing.T) {
	d := NewDecoder()
	data := buildYUVContainer(t, 3, 3, 2, 2)

	iterations, source, err := d.Load(data, Size{W: 12, H: 12})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if iterations != 2 {
		t.Errorf("iterations = %d, want 2", iterations)
	}
	if source != (Size{W: 12, H: 12}) {
		t.Errorf("source = %+v, want {12 12}", source)
	}

	dst := make([]byte, 12*12*3)
	for i := range dst {
		dst[i] = 0x55 // sentinel: Decode must overwrite every byte
	}
	if err := d.Decode(iterations, PixelFormatRGB888, dst, 12, 12, 36); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range dst {
		if v == 0x55 {
			t.Fatalf("dst[%d] untouched by Decode", i)
		}
	}
}

func TestDecoderLoadRejectsMalformedContainer(t *testing.T) {
	data := buildContainer(t, 4, 4, 3, 0, 8, nil, nil)
	data[0] = 'X'

	iterations, source, err := NewDecoder().Load(data, Size{W: 32, H: 32})
	if err != ErrInvalidSignature {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
	if iterations != 0 {
		t.Errorf("iterations = %d, want 0 on failure", iterations)
	}
	if source != (Size{}) {
		t.Errorf("source = %+v, want zero Size on failure", source)
	}
}

func TestDecoderDecodeRejectsUnsupportedPixelFormat(t *testing.T) {
	d := NewDecoder()
	data := buildYUVContainer(t, 3, 3, 2, 1)
	if _, _, err := d.Load(data, Size{W: 12, H: 12}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	dst := make([]byte, 12*12*3)
	const notRGB888 PixelFormat = PixelFormatRGB888 + 1
	if err := d.Decode(1, notRGB888, dst, 12, 12, 36); err != ErrUnsupportedPixelFormat {
		t.Errorf("err = %v, want ErrUnsupportedPixelFormat", err)
	}
}

func TestDecoderResetDiscardsLoadedImage(t *testing.T) {
	d := NewDecoder()
	data := buildYUVContainer(t, 3, 3, 2, 1)
	if _, _, err := d.Load(data, Size{W: 12, H: 12}); err != nil {
		t.Fatalf("Load: %v", err)
	}

	d.Reset()

	dst := make([]byte, 12*12*3)
	for i := range dst {
		dst[i] = 0xFF
	}
	if err := d.Decode(1, PixelFormatRGB888, dst, 12, 12, 36); err != nil {
		t.Fatalf("Decode after Reset: %v", err)
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %#x, want 0 (Reset must discard the loaded image)", i, v)
		}
	}
}

func TestDecoderLoadFailureLeavesPreviousImageUnready(t *testing.T) {
	d := NewDecoder()
	good := buildYUVContainer(t, 3, 3, 2, 1)
	if _, _, err := d.Load(good, Size{W: 12, H: 12}); err != nil {
		t.Fatalf("first Load: %v", err)
	}

	bad := buildContainer(t, 4, 4, 3, 0, 8, nil, nil)
	bad[0] = 'X'
	if _, _, err := d.Load(bad, Size{W: 32, H: 32}); err == nil {
		t.Fatalf("second Load: want error for corrupt data")
	}

	dst := make([]byte, 16*16*3)
	for i := range dst {
		dst[i] = 0xFF
	}
	if err := d.Decode(1, PixelFormatRGB888, dst, 16, 16, 48); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %#x, want 0 (a failed Load must not leave the decoder ready)", i, v)
		}
	}
}
