package registry

import "testing"

func TestLookupUnknownFormat(t *testing.T) {
	if _, err := Lookup("nonsense"); err == nil {
		t.Fatal("expected error for an unregistered format")
	}
}

func TestBufferSizeCompressed(t *testing.T) {
	cases := []struct {
		format     CompressionFormat
		w, h, want int
	}{
		{Bc1, 4, 4, 8},
		{Bc1, 1, 1, 8},   // clips up to one 4x4 block
		{Bc1, 5, 5, 32},  // 2x2 blocks
		{Bc3, 4, 4, 16},
		{Bc7, 8, 8, 64},
		{Atc, 7, 7, 32}, // 2x2 blocks * 8 bytes
	}
	for _, c := range cases {
		got, err := BufferSize(c.format, c.w, c.h)
		if err != nil {
			t.Fatalf("BufferSize(%s,%d,%d): %v", c.format, c.w, c.h, err)
		}
		if got != c.want {
			t.Errorf("BufferSize(%s,%d,%d) = %d, want %d", c.format, c.w, c.h, got, c.want)
		}
	}
}

func TestBufferSizeRaw(t *testing.T) {
	cases := []struct {
		format     CompressionFormat
		w, h, want int
	}{
		{R, 10, 10, 100},
		{Rg, 10, 10, 200},
		{Rgb, 3, 2, 18},
		{Rgba, 3, 2, 24},
		{Bgra, 3, 2, 24},
	}
	for _, c := range cases {
		got, err := BufferSize(c.format, c.w, c.h)
		if err != nil {
			t.Fatalf("BufferSize(%s,%d,%d): %v", c.format, c.w, c.h, err)
		}
		if got != c.want {
			t.Errorf("BufferSize(%s,%d,%d) = %d, want %d", c.format, c.w, c.h, got, c.want)
		}
	}
}

func TestAllEntriesConstructKernels(t *testing.T) {
	for format := range entries {
		e, err := Lookup(format)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", format, err)
		}
		k := e.NewKernel(KernelOptions{})
		if k.BlockBytes() != e.BlockBytes {
			t.Errorf("%s: kernel reports BlockBytes %d, registry says %d", format, k.BlockBytes(), e.BlockBytes)
		}
	}
}
