package kernel

// The raw kernels expand packed uncompressed pixel channels to RGBA. Unlike
// the block kernels above they operate per pixel (BlockBytes reports the
// per-pixel byte stride) and only slot 0 of the returned block is filled.
// The orchestrator has no separate path for them: it passes their one-pixel
// blocks through the assembler with a 1x1 block extent.

// RawR expands a single red byte per pixel. Green and blue are zero unless
// RedAsLuminance is set, in which case the red value is replicated into them.
type RawR struct {
	RedAsLuminance bool
}

func (RawR) BlockBytes() int { return 1 }

func (k RawR) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 1); err != nil {
		return out, err
	}
	r := block[0]
	g, b := uint8(0), uint8(0)
	if k.RedAsLuminance {
		g, b = r, r
	}
	out[0] = ColorRGBA{R: r, G: g, B: b, A: 255}
	return out, nil
}

// RawRG expands two packed bytes (R, G) per pixel. Blue is zero, alpha opaque.
type RawRG struct{}

func (RawRG) BlockBytes() int { return 2 }

func (RawRG) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 2); err != nil {
		return out, err
	}
	out[0] = ColorRGBA{R: block[0], G: block[1], B: 0, A: 255}
	return out, nil
}

// RawRGB expands three packed bytes (R, G, B) per pixel. Alpha opaque.
type RawRGB struct{}

func (RawRGB) BlockBytes() int { return 3 }

func (RawRGB) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 3); err != nil {
		return out, err
	}
	out[0] = ColorRGBA{R: block[0], G: block[1], B: block[2], A: 255}
	return out, nil
}

// RawRGBA is a direct copy of four packed bytes per pixel.
type RawRGBA struct{}

func (RawRGBA) BlockBytes() int { return 4 }

func (RawRGBA) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 4); err != nil {
		return out, err
	}
	out[0] = ColorRGBA{R: block[0], G: block[1], B: block[2], A: block[3]}
	return out, nil
}

// RawBGRA swaps blue and red of four packed bytes per pixel.
type RawBGRA struct{}

func (RawBGRA) BlockBytes() int { return 4 }

func (RawBGRA) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 4); err != nil {
		return out, err
	}
	out[0] = ColorRGBA{R: block[2], G: block[1], B: block[0], A: block[3]}
	return out, nil
}
