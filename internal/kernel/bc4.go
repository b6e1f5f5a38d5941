package kernel

// BC4 block: 8 bytes - the same alpha-ramp layout as BC3's alpha half,
// applied to the red channel. Green and blue are zero, alpha is opaque.
type BC4 struct {
	// RedAsLuminance, when true, also writes the decoded red value into the
	// green and blue channels so single-channel textures render as greyscale.
	RedAsLuminance bool
}

func (BC4) BlockBytes() int { return 8 }

func (k BC4) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 8); err != nil {
		return out, err
	}

	red := decodeAlphaBlock(block)

	for i, r := range red {
		g, b := uint8(0), uint8(0)
		if k.RedAsLuminance {
			g, b = r, r
		}
		out[i] = ColorRGBA{R: r, G: g, B: b, A: 255}
	}

	return out, nil
}
