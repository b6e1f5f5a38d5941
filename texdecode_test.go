package texdecode

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/woozymasta/texdecode/internal/container/dds"
)

func TestGetBufferSizeRawAndCompressed(t *testing.T) {
	size, err := GetBufferSize(Rgba, 3, 2)
	if err != nil || size != 24 {
		t.Fatalf("GetBufferSize(Rgba,3,2) = %d, %v; want 24, nil", size, err)
	}
	size, err = GetBufferSize(Bc1, 5, 5)
	if err != nil || size != 32 {
		t.Fatalf("GetBufferSize(Bc1,5,5) = %d, %v; want 32, nil", size, err)
	}
}

func TestDecodeRawLengthMismatch(t *testing.T) {
	size, _ := GetBufferSize(Rgba, 2, 2)
	_, err := DecodeRaw(context.Background(), make([]byte, size-1), 2, 2, Rgba, DecoderOptions{})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("want ErrLengthMismatch, got %v", err)
	}
}

func TestDecodeRawStreamTruncated(t *testing.T) {
	size, _ := GetBufferSize(Rgba, 2, 2)
	short := bytes.NewReader(make([]byte, size-1))
	_, err := DecodeRawStream(context.Background(), short, 2, 2, Rgba, DecoderOptions{})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestDecodeRawDimensionIndependence(t *testing.T) {
	for _, dim := range []int{1, 2, 3, 5, 7, 17} {
		size, err := GetBufferSize(Bc1, dim, dim)
		if err != nil {
			t.Fatalf("GetBufferSize: %v", err)
		}
		img, err := DecodeRaw(context.Background(), make([]byte, size), dim, dim, Bc1, DecoderOptions{})
		if err != nil {
			t.Fatalf("dim=%d: DecodeRaw: %v", dim, err)
		}
		if len(img.Pix) != dim*dim*4 {
			t.Fatalf("dim=%d: Pix length = %d, want %d", dim, len(img.Pix), dim*dim*4)
		}
	}
}

func TestDecodeRawParallelMatchesSequential(t *testing.T) {
	width, height := 64, 64
	format := Bc3
	size, _ := GetBufferSize(format, width, height)
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i * 7)
	}

	seqOpts := DecoderOptions{IsParallel: false}
	parOpts := DecoderOptions{IsParallel: true, TaskCount: 8}

	seq, err := DecodeRaw(context.Background(), data, width, height, format, seqOpts)
	if err != nil {
		t.Fatalf("sequential DecodeRaw: %v", err)
	}
	par, err := DecodeRaw(context.Background(), data, width, height, format, parOpts)
	if err != nil {
		t.Fatalf("parallel DecodeRaw: %v", err)
	}
	if !bytes.Equal(seq.Pix, par.Pix) {
		t.Fatal("sequential and parallel decodes diverged")
	}
}

func TestDecodeBlockRejectsRawFormat(t *testing.T) {
	_, err := DecodeBlock([]byte{1, 2, 3, 4}, Rgba)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeBlockLengthMismatch(t *testing.T) {
	_, err := DecodeBlock(make([]byte, 7), Bc1)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("want ErrLengthMismatch, got %v", err)
	}
}

func TestDecodeBlockIdempotent(t *testing.T) {
	block := []byte{0x00, 0xF8, 0xE0, 0x07, 0x1B, 0x1B, 0x1B, 0x1B}
	a, err := DecodeBlock(block, Bc1)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	b, err := DecodeBlock(block, Bc1)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if a != b {
		t.Fatalf("decode_block is not idempotent: %+v vs %+v", a, b)
	}
}

func TestDecodeBlockStreamEOFAndTruncated(t *testing.T) {
	n, err := DecodeBlockStream(bytes.NewReader(nil), Bc1, &RawBlock4x4{})
	if err != nil || n != 0 {
		t.Fatalf("clean EOF: n=%d, err=%v, want 0, nil", n, err)
	}

	var out RawBlock4x4
	partial := bytes.NewReader(make([]byte, 3))
	_, err = DecodeBlockStream(partial, Bc1, &out)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("want ErrTruncated for a partial block, got %v", err)
	}
}

func TestDecodeBlockStreamRejectsRawFormat(t *testing.T) {
	_, err := DecodeBlockStream(bytes.NewReader(make([]byte, 4)), Rgba, &RawBlock4x4{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("want ErrUnsupportedFormat for raw formats, got %v", err)
	}
}

func TestCancellationBeforeStartYieldsNoOutput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	size, _ := GetBufferSize(Bc1, 64, 64)
	_, err := DecodeRaw(ctx, make([]byte, size), 64, 64, Bc1, DecoderOptions{IsParallel: true})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("want ErrCancelled, got %v", err)
	}
}

func TestProgressMonotoneAndReachesOne(t *testing.T) {
	size, _ := GetBufferSize(Bc1, 64, 64)
	var seen []float64
	opts := DecoderOptions{IsParallel: true, TaskCount: 4, Progress: func(f float64) { seen = append(seen, f) }}

	_, err := DecodeRaw(context.Background(), make([]byte, size), 64, 64, Bc1, opts)
	if err != nil {
		t.Fatalf("DecodeRaw: %v", err)
	}
	if len(seen) == 0 {
		t.Fatal("expected at least one progress callback")
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Fatalf("progress decreased: %v at index %d, previous %v", seen[i], i, seen[i-1])
		}
	}
	if seen[len(seen)-1] != 1.0 {
		t.Fatalf("final progress = %v, want 1.0", seen[len(seen)-1])
	}
}

func TestNewDecoderOptionsDefaults(t *testing.T) {
	opts := NewDecoderOptions()
	if opts.RedAsLuminance {
		t.Fatal("RedAsLuminance should default to false")
	}
	if opts.DDSBC1ExpectAlpha {
		t.Fatal("DDSBC1ExpectAlpha should default to false")
	}
	if !opts.IsParallel {
		t.Fatal("IsParallel should default to true")
	}
	if opts.TaskCount <= 0 {
		t.Fatalf("TaskCount should resolve to hardware parallelism, got %d", opts.TaskCount)
	}
}

func buildMinimalDDS(t *testing.T) []byte {
	t.Helper()
	le32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}
	var buf bytes.Buffer
	buf.WriteString(dds.Magic)
	buf.Write(le32(dds.HeaderSize))
	buf.Write(le32(dds.HeaderFlagsTexture))
	buf.Write(le32(4)) // height
	buf.Write(le32(4)) // width
	buf.Write(le32(0))
	buf.Write(le32(0))
	buf.Write(le32(1)) // mipMapCount
	for i := 0; i < 11; i++ {
		buf.Write(le32(0))
	}
	buf.Write(le32(dds.PixelFormatSize))
	buf.Write(le32(dds.PFFourCC))
	buf.WriteString("DXT1")
	buf.Write(le32(0))
	buf.Write(le32(0))
	buf.Write(le32(0))
	buf.Write(le32(0))
	buf.Write(le32(0))
	buf.Write(le32(dds.CapsTexture))
	buf.Write(le32(0))
	buf.Write(le32(0))
	buf.Write(le32(0))
	buf.Write(le32(0))
	buf.Write(make([]byte, 8)) // one BC1 block
	return buf.Bytes()
}

func TestDecodeSniffsDDSContainer(t *testing.T) {
	data := buildMinimalDDS(t)
	img, err := Decode(context.Background(), bytes.NewReader(data), DecoderOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != 4 || img.Height != 4 || len(img.Pix) != 64 {
		t.Fatalf("img = %+v", img)
	}
}

func TestDecode2DShape(t *testing.T) {
	data := buildMinimalDDS(t)
	d2, err := Decode2D(context.Background(), bytes.NewReader(data), DecoderOptions{})
	if err != nil {
		t.Fatalf("Decode2D: %v", err)
	}
	if d2.Rows != 4 || d2.Cols != 4 {
		t.Fatalf("shape = %dx%d, want 4x4", d2.Rows, d2.Cols)
	}
}

func TestDecodeMalformedContainerMagic(t *testing.T) {
	_, err := Decode(context.Background(), bytes.NewReader([]byte("not a real container!!!")), DecoderOptions{})
	if !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("want ErrMalformedContainer, got %v", err)
	}
}

func TestAsyncDecodeBlockMatchesSync(t *testing.T) {
	block := []byte{0x00, 0xF8, 0xE0, 0x07, 0x1B, 0x1B, 0x1B, 0x1B}
	want, err := DecodeBlock(block, Bc1)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	result := <-DecodeBlockAsync(block, Bc1)
	if result.Err != nil {
		t.Fatalf("DecodeBlockAsync: %v", result.Err)
	}
	if result.Value != want {
		t.Fatalf("async result %+v != sync result %+v", result.Value, want)
	}
}
