package kernel

// BC5 block: 16 bytes - two independent BC4-style alpha-ramp blocks, the
// first decoded into red, the second into green. Blue is zero, alpha opaque.
type BC5 struct{}

func (BC5) BlockBytes() int { return 16 }

func (BC5) DecodeBlock(block []byte) (RawBlock4x4, error) {
	var out RawBlock4x4
	if err := requireLen(block, 16); err != nil {
		return out, err
	}

	red := decodeAlphaBlock(block[0:8])
	green := decodeAlphaBlock(block[8:16])

	for i := range out {
		out[i] = ColorRGBA{R: red[i], G: green[i], B: 0, A: 255}
	}

	return out, nil
}
