package kernel

import (
	"reflect"
	"testing"
)

func pack565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

func TestBC1OpaqueMode(t *testing.T) {
	// c0 > c1 selects the 4-color ramp; index pattern picks one of each ref color.
	c0 := pack565(255, 0, 0)
	c1 := pack565(0, 0, 255)
	block := []byte{
		byte(c0), byte(c0 >> 8),
		byte(c1), byte(c1 >> 8),
		0x1B, 0x1B, 0x1B, 0x1B, // indices 3,2,1,0 repeating (binary 00011011)
	}

	got, err := BC1{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got[0].A != 255 || got[3].A != 255 {
		t.Fatalf("opaque BC1 must never produce transparent pixels, got %+v", got[0])
	}
}

func TestBC1OpaqueModeUsesFourColorRampRegardlessOfEndpointOrder(t *testing.T) {
	// c0=0x0000 (black), c1=0xF800 (pure red), all index 3: even though c0<=c1
	// would select 1-bit alpha mode for BC1WithAlpha, the non-alpha BC1 variant
	// must still use the unconditional 4-color ramp, giving (1*c0+2*c1)/3 ~ (170,0,0).
	block := []byte{0x00, 0x00, 0x00, 0xF8, 0xFF, 0xFF, 0xFF, 0xFF}

	got, err := BC1{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	want := ColorRGBA{R: 170, G: 0, B: 0, A: 255}
	if got[0] != want {
		t.Fatalf("got %+v, want %+v", got[0], want)
	}
}

func TestBC1PunchThroughAlpha(t *testing.T) {
	c0 := pack565(0, 255, 0)
	c1 := pack565(255, 0, 0)
	// c0 <= c1 selects 1-bit alpha mode; index 3 is the punch-through slot.
	var block [8]byte
	block[0], block[1] = byte(c0), byte(c0>>8)
	block[2], block[3] = byte(c1), byte(c1>>8)
	for i := range block[4:8] {
		block[4+i] = 0xFF // every index = 3
	}

	withAlpha, err := BC1WithAlpha{}.DecodeBlock(block[:])
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	for i, px := range withAlpha {
		if px.A != 0 {
			t.Fatalf("pixel %d: want alpha 0 in punch-through mode, got %d", i, px.A)
		}
	}

	opaque, err := BC1{}.DecodeBlock(block[:])
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	for i, px := range opaque {
		if px.A != 255 {
			t.Fatalf("pixel %d: BC1 (non-alpha variant) must force opaque, got %d", i, px.A)
		}
	}
}

func TestBC2ExplicitAlpha(t *testing.T) {
	block := make([]byte, 16)
	block[0] = 0xF0 // low nibble 0 -> alpha 0, high nibble 0xF -> alpha 255
	c0 := pack565(10, 20, 30)
	c1 := pack565(200, 210, 220)
	block[8], block[9] = byte(c0), byte(c0>>8)
	block[10], block[11] = byte(c1), byte(c1>>8)

	got, err := BC2{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got[0].A != 0 {
		t.Fatalf("pixel 0: want alpha 0, got %d", got[0].A)
	}
	if got[1].A != 255 {
		t.Fatalf("pixel 1: want alpha 255, got %d", got[1].A)
	}
}

func TestBC4RedAsLuminance(t *testing.T) {
	block := []byte{255, 0, 0, 0, 0, 0, 0, 0} // a0=255 > a1=0: 6-value ramp, index 0 everywhere

	plain, err := BC4{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if plain[0].G != 0 || plain[0].B != 0 {
		t.Fatalf("non-luminance BC4 must zero G/B, got %+v", plain[0])
	}

	lum, err := BC4{RedAsLuminance: true}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if lum[0].R != 255 || lum[0].G != 255 || lum[0].B != 255 {
		t.Fatalf("luminance BC4 must replicate red into G/B, got %+v", lum[0])
	}
}

func TestBC5IndependentChannels(t *testing.T) {
	block := make([]byte, 16)
	block[0], block[1] = 255, 0 // red ramp: a0>a1
	block[8], block[9] = 0, 255 // green ramp: a0<a1

	got, err := BC5{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got[0].R != 255 {
		t.Fatalf("want red endpoint 255 at index 0, got %d", got[0].R)
	}
	if got[0].G != 0 {
		t.Fatalf("want green endpoint 0 at index 0, got %d", got[0].G)
	}
	if got[0].B != 0 || got[0].A != 255 {
		t.Fatalf("BC5 must zero blue and force opaque alpha, got %+v", got[0])
	}
}

func TestRawKernelsWriteOnlyFirstSlot(t *testing.T) {
	k := RawRGBA{}
	got, err := k.DecodeBlock([]byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	want := RawBlock4x4{}
	want[0] = ColorRGBA{R: 1, G: 2, B: 3, A: 4}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRawBGRASwapsChannels(t *testing.T) {
	got, err := RawBGRA{}.DecodeBlock([]byte{10, 20, 30, 40})
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got[0].R != 30 || got[0].G != 20 || got[0].B != 10 || got[0].A != 40 {
		t.Fatalf("BGRA swap incorrect: %+v", got[0])
	}
}

func TestRawRWithLuminance(t *testing.T) {
	got, err := RawR{RedAsLuminance: true}.DecodeBlock([]byte{128})
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got[0].R != 128 || got[0].G != 128 || got[0].B != 128 {
		t.Fatalf("want replicated luminance, got %+v", got[0])
	}
}

func TestShortBlockErrors(t *testing.T) {
	decoders := []Decoder{BC1{}, BC1WithAlpha{}, BC2{}, BC3{}, BC4{}, BC5{}, ATC{}, AtcExplicitAlpha{}, AtcInterpolatedAlpha{}, BC7{}, RawR{}, RawRG{}, RawRGB{}, RawRGBA{}, RawBGRA{}}
	for _, d := range decoders {
		_, err := d.DecodeBlock(make([]byte, d.BlockBytes()-1))
		if err == nil {
			t.Errorf("%T: expected error decoding a too-short block", d)
		}
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	block := []byte{0x00, 0xF8, 0xE0, 0x07, 0x1B, 0x1B, 0x1B, 0x1B}
	k := BC1{}
	a, err := k.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	b, err := k.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("decoding the same block twice produced different output: %+v vs %+v", a, b)
	}
}

// bc7BitWriter packs LSB-first bit fields in the same order bc7BitReader reads them.
type bc7BitWriter struct {
	data [16]byte
	pos  int
}

func (w *bc7BitWriter) write(val uint32, n int) {
	for i := 0; i < n; i++ {
		if (val>>uint(i))&1 != 0 {
			w.data[w.pos/8] |= 1 << uint(w.pos%8)
		}
		w.pos++
	}
}

func TestBC7Mode6SingleSubsetOpaqueIndex(t *testing.T) {
	var w bc7BitWriter
	w.write(1<<6, 7) // mode 6 unary code
	// colors: ch(R,G,B) x subset(0) x endpoint(0,1)
	w.write(50, 7)
	w.write(100, 7) // R0, R1
	w.write(25, 7)
	w.write(75, 7) // G0, G1
	w.write(5, 7)
	w.write(10, 7) // B0, B1
	// alphas: endpoint(0,1)
	w.write(127, 7)
	w.write(127, 7) // A0, A1
	// p-bits: one per endpoint
	w.write(0, 1)
	w.write(0, 1)
	// primary index (4-bit, anchor pixel 0 stored with 1 fewer bit), all zero
	w.write(0, 3)
	for i := 1; i < 16; i++ {
		w.write(0, 4)
	}

	got, err := BC7{}.DecodeBlock(w.data[:])
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	want := ColorRGBA{R: 100, G: 50, B: 10, A: 254}
	for i, px := range got {
		if px != want {
			t.Fatalf("pixel %d: got %+v, want %+v", i, px, want)
		}
	}
}

func TestBC7Mode4DualIndexSelect(t *testing.T) {
	var w bc7BitWriter
	w.write(1<<4, 5) // mode 4 unary code
	w.write(0, 2)     // rotation = 0 (no channel swap)
	w.write(0, 1)     // index select = 0: color uses primary, alpha uses secondary
	// colors: ch(R,G,B) x endpoint(0,1), 5 bits each
	w.write(10, 5)
	w.write(31, 5) // R0, R1
	w.write(20, 5)
	w.write(31, 5) // G0, G1
	w.write(5, 5)
	w.write(31, 5) // B0, B1
	// alphas: endpoint(0,1), 6 bits each
	w.write(40, 6)
	w.write(63, 6) // A0, A1
	// primary color index (2-bit, anchor pixel 0 stored with 1 fewer bit), all zero
	w.write(0, 1)
	for i := 1; i < 16; i++ {
		w.write(0, 2)
	}
	// secondary alpha index (3-bit, anchor pixel 0 stored with 1 fewer bit), all zero
	w.write(0, 2)
	for i := 1; i < 16; i++ {
		w.write(0, 3)
	}

	got, err := BC7{}.DecodeBlock(w.data[:])
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	// expandBits(10,5) = (10<<3)|(10>>2) = 82; expandBits(20,5) = 165; expandBits(5,5) = 41;
	// expandBits(40,6) = (40<<2)|(40>>4) = 162.
	want := ColorRGBA{R: 82, G: 165, B: 41, A: 162}
	for i, px := range got {
		if px != want {
			t.Fatalf("pixel %d: got %+v, want %+v", i, px, want)
		}
	}
}

func TestBC7Mode1SharedPBitPartition(t *testing.T) {
	var w bc7BitWriter
	w.write(1<<1, 2) // mode 1 unary code
	w.write(0, 6)     // partition 0
	// colors: ch(R,G,B) x subset(0,1) x endpoint(0,1), 6 bits each; both subsets
	// share the same endpoint-0 value so the pixel->subset assignment doesn't matter.
	w.write(40, 6)
	w.write(63, 6)
	w.write(40, 6)
	w.write(63, 6) // R
	w.write(50, 6)
	w.write(63, 6)
	w.write(50, 6)
	w.write(63, 6) // G
	w.write(20, 6)
	w.write(63, 6)
	w.write(20, 6)
	w.write(63, 6) // B
	// shared p-bit per subset
	w.write(0, 1)
	w.write(0, 1)
	// primary index (3-bit, anchors at pixel 0 and pixel 15 of partition 0 stored
	// with 1 fewer bit), all zero so every pixel resolves to its subset's endpoint 0.
	for i := 0; i < 16; i++ {
		if i == 0 || i == 15 {
			w.write(0, 2)
		} else {
			w.write(0, 3)
		}
	}

	got, err := BC7{}.DecodeBlock(w.data[:])
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	// endpoint raw 40 with p-bit 0 -> combined 80, expandBits(80,7) = (80<<1)|(80>>6) = 161.
	// 50 -> 100 -> 201. 20 -> 40 -> 80. alphaBits is 0 for mode 1, so alpha is forced 255.
	want := ColorRGBA{R: 161, G: 201, B: 80, A: 255}
	for i, px := range got {
		if px != want {
			t.Fatalf("pixel %d: got %+v, want %+v", i, px, want)
		}
	}
}

func TestBC7InvalidModeFallsBackToOpaqueBlack(t *testing.T) {
	block := make([]byte, 16) // byte 0 all zero: no unary mode bit set anywhere
	got, err := BC7{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	want := ColorRGBA{A: 255}
	for i, px := range got {
		if px != want {
			t.Fatalf("pixel %d: invalid mode must decode to opaque black, got %+v", i, px)
		}
	}
}

func TestATCPlainModeEndpointZero(t *testing.T) {
	// mode flag 0 (bit 15 clear); c0 bits R=0x1F,G=0,B=0 -> R=248; c1 RGB565 pure blue.
	block := []byte{0x00, 0x7C, 0x1F, 0x00, 0x00, 0x00, 0x00, 0x00}

	got, err := ATC{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	want := ColorRGBA{R: 248, G: 0, B: 0, A: 255}
	for i, px := range got {
		if px != want {
			t.Fatalf("pixel %d: got %+v, want %+v", i, px, want)
		}
	}
}

func TestATCOpaqueBlackModeWraparound(t *testing.T) {
	// mode flag 1 (bit 15 set); c0 bits R=1,G=2,B=3 -> (8,16,24); c1 RGB565 with
	// R=31 -> 248. endpoint[2] = c0 - c1/4 with uint8 wraparound: 8-62 wraps to 202.
	block := []byte{0x43, 0x84, 0x00, 0xF8, 0xAA, 0xAA, 0xAA, 0xAA} // every index = 2

	got, err := ATC{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	want := ColorRGBA{R: 202, G: 16, B: 24, A: 255}
	for i, px := range got {
		if px != want {
			t.Fatalf("pixel %d: got %+v, want %+v", i, px, want)
		}
	}
}

func TestAtcExplicitAlphaGrid(t *testing.T) {
	// Alpha nibbles: low=0 -> 0, high=0xF -> 255, alternating per pixel pair.
	alpha := []byte{0xF0, 0xF0, 0xF0, 0xF0, 0xF0, 0xF0, 0xF0, 0xF0}
	color := []byte{0x00, 0x7C, 0x1F, 0x00, 0x00, 0x00, 0x00, 0x00} // same as plain-mode fixture
	block := append(append([]byte{}, alpha...), color...)

	got, err := AtcExplicitAlpha{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got[0] != (ColorRGBA{R: 248, A: 0}) {
		t.Fatalf("pixel 0: got %+v", got[0])
	}
	if got[1] != (ColorRGBA{R: 248, A: 255}) {
		t.Fatalf("pixel 1: got %+v", got[1])
	}
}

func TestAtcInterpolatedAlphaRamp(t *testing.T) {
	alpha := []byte{200, 50, 0, 0, 0, 0, 0, 0} // a0=200 > a1=50: index 0 everywhere -> ramp[0]=200
	color := []byte{0x00, 0x7C, 0x1F, 0x00, 0x00, 0x00, 0x00, 0x00}
	block := append(append([]byte{}, alpha...), color...)

	got, err := AtcInterpolatedAlpha{}.DecodeBlock(block)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	want := ColorRGBA{R: 248, G: 0, B: 0, A: 200}
	for i, px := range got {
		if px != want {
			t.Fatalf("pixel %d: got %+v, want %+v", i, px, want)
		}
	}
}
