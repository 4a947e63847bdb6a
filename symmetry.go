package fjord

// Symmetry is one of the 8 dihedral isometries of the square, used by the
// affine block transform to sample a domain block into a range block.
type Symmetry int

const (
	SymmetryIdentity Symmetry = iota
	SymmetryRotate90
	SymmetryRotate180
	SymmetryRotate270
	SymmetryFlipX
	SymmetryFlipDiagonal
	SymmetryFlipY
	SymmetryFlipAntiDiagonal
	symmetryCount
)

// symmetryMatrix holds the coefficients of one dihedral transform:
// dst_x = a*x + b*y + sx*(rw-1), dst_y = c*x + d*y + sy*(rh-1).
// swapDims is true when the transform swaps width and height (so rw=h, rh=w).
type symmetryMatrix struct {
	a, b, c, d int
	swapDims   bool
	sx, sy     int
}

var symmetryMatrices = [symmetryCount]symmetryMatrix{
	SymmetryIdentity:         {a: 1, b: 0, c: 0, d: 1, swapDims: false, sx: 0, sy: 0},
	SymmetryRotate90:         {a: 0, b: -1, c: 1, d: 0, swapDims: true, sx: 1, sy: 0},
	SymmetryRotate180:        {a: -1, b: 0, c: 0, d: -1, swapDims: false, sx: 1, sy: 1},
	SymmetryRotate270:        {a: 0, b: 1, c: -1, d: 0, swapDims: true, sx: 0, sy: 1},
	SymmetryFlipX:            {a: -1, b: 0, c: 0, d: 1, swapDims: false, sx: 1, sy: 0},
	SymmetryFlipDiagonal:     {a: 0, b: 1, c: 1, d: 0, swapDims: true, sx: 0, sy: 0},
	SymmetryFlipY:            {a: 1, b: 0, c: 0, d: -1, swapDims: false, sx: 0, sy: 1},
	SymmetryFlipAntiDiagonal: {a: 0, b: -1, c: -1, d: 0, swapDims: true, sx: 1, sy: 1},
}
