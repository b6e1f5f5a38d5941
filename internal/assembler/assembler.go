// Package assembler writes a flat sequence of decoded 4x4 blocks into a
// row-major W×H RGBA buffer, clipping blocks that overhang a non-multiple-of-4
// dimension. It is the sole mechanism that handles such dimensions.
package assembler

import "github.com/woozymasta/texdecode/internal/kernel"

// Write assembles blocks (row-major block order, blocksWide columns, each
// block blockW×blockH pixels) into out, a pre-allocated 4*width*height byte
// buffer. Raw per-pixel kernels use blockW=blockH=1, in which case this is a
// plain row-major copy.
func Write(blocks []kernel.RawBlock4x4, blocksWide, blockW, blockH, width, height int, out []byte) {
	for i, block := range blocks {
		bx := i % blocksWide
		by := i / blocksWide
		originX := bx * blockW
		originY := by * blockH

		for row := 0; row < blockH; row++ {
			py := originY + row
			if py >= height {
				continue
			}
			for col := 0; col < blockW; col++ {
				px := originX + col
				if px >= width {
					continue
				}
				c := block[row*blockW+col]
				idx := (py*width + px) * 4
				out[idx] = c.R
				out[idx+1] = c.G
				out[idx+2] = c.B
				out[idx+3] = c.A
			}
		}
	}
}
