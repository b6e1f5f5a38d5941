package kernel

// BC1 block: 8 bytes - two RGB565 endpoints (c0, c1) followed by a 32-bit LUT
// of sixteen 2-bit palette indices, index 0 first in the low bits.

// BC1 decodes the opaque BC1/DXT1 variant: every block uses the four-color
// ramp regardless of endpoint order, so alpha is always 255.
type BC1 struct{}

// BC1WithAlpha decodes the BC1/DXT1 variant that preserves the 1-bit alpha
// punch-through: index 3 in 1-bit alpha mode resolves to alpha 0.
type BC1WithAlpha struct{}

func (BC1) BlockBytes() int         { return 8 }
func (BC1WithAlpha) BlockBytes() int { return 8 }

func (k BC1) DecodeBlock(block []byte) (RawBlock4x4, error) {
	return decodeBC1Opaque(block)
}

func (k BC1WithAlpha) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 8); err != nil {
		return out, err
	}

	c0 := le16(block[0:2])
	c1 := le16(block[2:4])
	indices := le32(block[4:8])

	color0 := from565(c0)
	color1 := from565(c1)

	oneBitAlphaMode := c0 <= c1

	var ref [4]ColorRGBA
	ref[0] = color0
	ref[1] = color1
	if oneBitAlphaMode {
		ref[2] = mixColor11Over2(color0, color1)
		ref[3] = ColorRGBA{}
	} else {
		ref[2] = mixColor21Over3(color0, color1)
		ref[3] = mixColor12Over3(color0, color1)
	}

	for i := 0; i < 16; i++ {
		idx := (indices >> (uint(i) * 2)) & 0x3
		px := ref[idx]
		if oneBitAlphaMode && idx == 3 {
			px.A = 0
		}
		out[i] = px
	}

	return out, nil
}

// decodeBC1Opaque decodes the color half of a BC1 block always in opaque (4-color)
// mode, as BC2 and BC3 require regardless of endpoint ordering.
func decodeBC1Opaque(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 8); err != nil {
		return out, err
	}

	c0 := le16(block[0:2])
	c1 := le16(block[2:4])
	indices := le32(block[4:8])

	color0 := from565(c0)
	color1 := from565(c1)

	var ref [4]ColorRGBA
	ref[0] = color0
	ref[1] = color1
	ref[2] = mixColor21Over3(color0, color1)
	ref[3] = mixColor12Over3(color0, color1)

	for i := 0; i < 16; i++ {
		idx := (indices >> (uint(i) * 2)) & 0x3
		out[i] = ref[idx]
	}

	return out, nil
}
