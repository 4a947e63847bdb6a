package fjord

import "errors"

var (
	ErrTruncatedData           = errors.New("fjord: truncated data")
	ErrInvalidSignature        = errors.New("fjord: invalid container signature")
	ErrInvalidVersion          = errors.New("fjord: unsupported container version")
	ErrInvalidCodec            = errors.New("fjord: unsupported inner codec")
	ErrUnsupportedImageCount   = errors.New("fjord: unsupported image count")
	ErrUnsupportedGamma        = errors.New("fjord: unsupported gamma value")
	ErrUnsupportedChannelCount = errors.New("fjord: unsupported channel count")
	ErrTooManyRegions          = errors.New("fjord: too many regions")
	ErrInvalidIFSSignature     = errors.New("fjord: invalid IFS signature")
	ErrTooManyBlocks           = errors.New("fjord: too many range blocks")
	ErrTooManyNodes            = errors.New("fjord: too many quad-tree nodes")
	ErrImageTooLarge           = errors.New("fjord: image dimensions exceed limit")
	ErrArenaExhausted          = errors.New("fjord: pixel arena exhausted")
	ErrUnsupportedPixelFormat  = errors.New("fjord: unsupported pixel format")
)
