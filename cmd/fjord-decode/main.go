// Command fjord-decode decodes a fjord fractal image container from the
// command line.
//
// Usage:
//
//	fjord-decode [options] <input.fjord>   fjord → PNG (use "-" for stdin, -o - for stdout)
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fjord-codec/fjord"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fjord-decode: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("fjord-decode", flag.ContinueOnError)
	output := fs.String("o", "", `output path (default: <input>.png, "-" for stdout)`)
	width := fs.Int("w", 0, "target width, 0 = decode at the container's native size")
	height := fs.Int("h", 0, "target height, 0 = decode at the container's native size")
	raw := fs.Bool("raw", false, "write raw interleaved RGB888 instead of PNG")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("missing input file\nUsage: fjord-decode [options] <input.fjord>")
	}
	inputPath := fs.Arg(0)

	target := fjord.Size{W: *width, H: *height}
	if target.W == 0 {
		target.W = fjord.MaxImageDimension
	}
	if target.H == 0 {
		target.H = fjord.MaxImageDimension
	}

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	dec := fjord.NewDecoder()
	iterations, source, err := dec.Load(data, target)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	pitch := source.W * 3
	buf := make([]byte, pitch*source.H)
	if err := dec.Decode(iterations, fjord.PixelFormatRGB888, buf, source.W, source.H, pitch); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, *raw)
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if *raw {
		_, err = out.Write(buf)
		return err
	}
	return png.Encode(out, rgb888Image(buf, source.W, source.H, pitch))
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func defaultOutputPath(inputPath string, raw bool) string {
	ext := ".png"
	if raw {
		ext = ".rgb"
	}
	if inputPath == "-" {
		return "output" + ext
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return base + ext
}

// rgb888Image copies a decoded RGB888 buffer into an opaque RGBA
// image.Image, for handoff to image/png.
func rgb888Image(buf []byte, width, height, pitch int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcRow := buf[y*pitch:]
		dstRow := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			dstRow[x*4+0] = srcRow[x*3+0]
			dstRow[x*4+1] = srcRow[x*3+1]
			dstRow[x*4+2] = srcRow[x*3+2]
			dstRow[x*4+3] = 0xFF
		}
	}
	return img
}
