package kernel

// ATC block: 8 bytes, mirroring BC1's endpoint+index layout but with two
// endpoint modes selected by a flag bit packed alongside the first endpoint.
// Ported from the bit-stream form (5/6/5-bit channel reads, MSB first) used
// by the ATC_RGB_AMD -> RGBA8 converter, re-expressed as little-endian byte
// reads since this module's block-major stream never needs bit-level seeking
// across block boundaries.

// ATC decodes the plain (no alpha) ATC color format.
type ATC struct{}

func (ATC) BlockBytes() int { return 8 }

func (ATC) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 8); err != nil {
		return out, err
	}
	endpoints, indices := decodeATCColorBlock(block)
	for i, idx := range indices {
		out[i] = endpoints[idx]
	}
	return out, nil
}

// AtcExplicitAlpha prepends a BC2-style explicit 4-bit alpha grid to the ATC color block.
type AtcExplicitAlpha struct{}

func (AtcExplicitAlpha) BlockBytes() int { return 16 }

func (AtcExplicitAlpha) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 16); err != nil {
		return out, err
	}

	var alphas [16]uint8
	for i := 0; i < 8; i++ {
		v := block[i]
		alphas[i*2] = (v & 0x0F) * 17
		alphas[i*2+1] = (v >> 4) * 17
	}

	endpoints, indices := decodeATCColorBlock(block[8:16])
	for i, idx := range indices {
		px := endpoints[idx]
		px.A = alphas[i]
		out[i] = px
	}
	return out, nil
}

// AtcInterpolatedAlpha prepends a BC3-style interpolated alpha block to the ATC color block.
type AtcInterpolatedAlpha struct{}

func (AtcInterpolatedAlpha) BlockBytes() int { return 16 }

func (AtcInterpolatedAlpha) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 16); err != nil {
		return out, err
	}

	alphas := decodeAlphaBlock(block[0:8])

	endpoints, indices := decodeATCColorBlock(block[8:16])
	for i, idx := range indices {
		px := endpoints[idx]
		px.A = alphas[i]
		out[i] = px
	}
	return out, nil
}

// decodeATCColorBlock decodes the shared 8-byte ATC endpoint+index layout.
// Byte layout (little-endian 16-bit endpoints, mirroring BC1):
//
//	bytes 0-1: c0 - bit 15 is the mode flag, bits 14-10/9-5/4-0 are R/G/B (5/5/5).
//	bytes 2-3: c1 - RGB565.
//	bytes 4-7: 16 2-bit indices, index 0 in the low bits.
func decodeATCColorBlock(block []byte) ([4]ColorRGBA, [16]uint8) {
	raw0 := le16(block[0:2])
	raw1 := le16(block[2:4])
	indexBits := le32(block[4:8])

	modeOpaqueBlack := (raw0 & 0x8000) != 0
	c0 := ColorRGBA{
		R: uint8((raw0>>10)&0x1F) << 3, //nolint:gosec // Masked to 5 bits then shifted.
		G: uint8((raw0>>5)&0x1F) << 3,  //nolint:gosec // Masked to 5 bits then shifted.
		B: uint8(raw0&0x1F) << 3,       //nolint:gosec // Masked to 5 bits then shifted.
		A: 255,
	}
	c1 := from565(raw1)

	var endpoints [4]ColorRGBA
	if modeOpaqueBlack {
		// Mode 1: palette[0] is black, palette[1]=c0, palette[3]=c1, palette[2]
		// interpolates toward black instead of toward c1.
		endpoints[0] = ColorRGBA{A: 255}
		endpoints[1] = c0
		endpoints[2] = ColorRGBA{
			R: c0.R - c1.R/4,
			G: c0.G - c1.G/4,
			B: c0.B - c1.B/4,
			A: 255,
		}
		endpoints[3] = c1
	} else {
		endpoints[0] = c0
		endpoints[1] = mixColor21Over3(c0, c1)
		endpoints[2] = mixColor12Over3(c0, c1)
		endpoints[3] = c1
	}

	var indices [16]uint8
	for i := range indices {
		indices[i] = uint8((indexBits >> (uint(i) * 2)) & 0x3) //nolint:gosec // 2-bit field.
	}

	return endpoints, indices
}
