package fjord

// transform describes one range block's affine map: the 2x-larger domain
// rect it samples from, a contrast/brightness adjustment, and which of the
// 8 dihedral symmetries to apply when writing into the range block.
type transform struct {
	geometry   Rect
	contrast   Pixel
	brightness Pixel
	symmetry   Symmetry
}

// rangeBlock is one leaf of the quad-tree partition: a destination tile plus
// the three working images it owns (original/bordered/window) and the
// affine map that reconstructs it from a domain region of the same canvas.
// The three images share no storage.
type rangeBlock struct {
	originalImage image
	borderedImage image
	windowImage   image
	transform     transform
}
