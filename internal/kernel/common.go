package kernel

// from565 unpacks a little-endian RGB565 value into a ColorRGBA with alpha 255.
func from565(v uint16) ColorRGBA {
	r := uint8((v >> 8) & 0b11111000) //nolint:gosec // Masked to 8 bits.
	g := uint8((v >> 3) & 0b11111100) //nolint:gosec // Masked to 8 bits.
	b := uint8((v << 3) & 0b11111000) //nolint:gosec // Masked to 8 bits.
	return ColorRGBA{R: r, G: g, B: b, A: 255}
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// mix21Over3 computes (2*x + y) / 3 per channel, saturated by construction (uint8 inputs).
func mix21Over3(x, y uint8) uint8 {
	return uint8((2*uint16(x) + uint16(y)) / 3) //nolint:gosec // Result is within 0..255.
}

// mix12Over3 computes (x + 2*y) / 3 per channel.
func mix12Over3(x, y uint8) uint8 {
	return uint8((uint16(x) + 2*uint16(y)) / 3) //nolint:gosec // Result is within 0..255.
}

// mix11Over2 computes (x + y) / 2 per channel.
func mix11Over2(x, y uint8) uint8 {
	return uint8((uint16(x) + uint16(y)) / 2) //nolint:gosec // Result is within 0..255.
}

func mixColor21Over3(c0, c1 ColorRGBA) ColorRGBA {
	return ColorRGBA{R: mix21Over3(c0.R, c1.R), G: mix21Over3(c0.G, c1.G), B: mix21Over3(c0.B, c1.B), A: 255}
}

func mixColor12Over3(c0, c1 ColorRGBA) ColorRGBA {
	return ColorRGBA{R: mix12Over3(c0.R, c1.R), G: mix12Over3(c0.G, c1.G), B: mix12Over3(c0.B, c1.B), A: 255}
}

func mixColor11Over2(c0, c1 ColorRGBA) ColorRGBA {
	return ColorRGBA{R: mix11Over2(c0.R, c1.R), G: mix11Over2(c0.G, c1.G), B: mix11Over2(c0.B, c1.B), A: 255}
}

// interpolateSeventh computes ((7-num)*a0 + num*a1 + 3) / 7, the BC3/BC4/ATC 6-value ramp.
func interpolateSeventh(a0, a1 uint8, num int) uint8 {
	return uint8(((7-num)*int(a0) + num*int(a1) + 3) / 7) //nolint:gosec // Result is within 0..255.
}

// interpolateFifth computes ((5-num)*a0 + num*a1 + 2) / 5, the BC3/BC4/ATC 4-value ramp.
func interpolateFifth(a0, a1 uint8, num int) uint8 {
	return uint8(((5-num)*int(a0) + num*int(a1) + 2) / 5) //nolint:gosec // Result is within 0..255.
}

// alphaRamp builds the 8-entry alpha/red reference table shared by BC3's alpha half, BC4 and BC5.
func alphaRamp(a0, a1 uint8) [8]uint8 {
	if a0 > a1 {
		return [8]uint8{
			a0, a1,
			interpolateSeventh(a0, a1, 1),
			interpolateSeventh(a0, a1, 2),
			interpolateSeventh(a0, a1, 3),
			interpolateSeventh(a0, a1, 4),
			interpolateSeventh(a0, a1, 5),
			interpolateSeventh(a0, a1, 6),
		}
	}
	return [8]uint8{
		a0, a1,
		interpolateFifth(a0, a1, 1),
		interpolateFifth(a0, a1, 2),
		interpolateFifth(a0, a1, 3),
		interpolateFifth(a0, a1, 4),
		0,
		255,
	}
}

// unpack3BitIndices unpacks the 16 3-bit indices BC4/BC3-alpha/ATC-interpolated pack into 6 bytes.
func unpack3BitIndices(t [6]byte) [16]uint8 {
	var idx [16]uint8
	idx[0] = (t[0] >> 0) & 0x7
	idx[1] = (t[0] >> 3) & 0x7
	idx[2] = ((t[0] >> 6) & 0x3) | ((t[1] << 2) & 0x4)
	idx[3] = (t[1] >> 1) & 0x7
	idx[4] = (t[1] >> 4) & 0x7
	idx[5] = ((t[1] >> 7) & 0x1) | ((t[2] << 1) & 0x6)
	idx[6] = (t[2] >> 2) & 0x7
	idx[7] = (t[2] >> 5) & 0x7
	idx[8] = (t[3] >> 0) & 0x7
	idx[9] = (t[3] >> 3) & 0x7
	idx[10] = ((t[3] >> 6) & 0x3) | ((t[4] << 2) & 0x4)
	idx[11] = (t[4] >> 1) & 0x7
	idx[12] = (t[4] >> 4) & 0x7
	idx[13] = ((t[4] >> 7) & 0x1) | ((t[5] << 1) & 0x6)
	idx[14] = (t[5] >> 2) & 0x7
	idx[15] = (t[5] >> 5) & 0x7
	return idx
}
