// Package registry is the single source of truth mapping a neutral
// CompressionFormat tag to its decode kernel, block byte size and
// compressed/raw classification. Container format identifiers (DXGI codes,
// fourCCs, GL internal formats) are resolved to a CompressionFormat by the
// container packages, not here.
package registry

import (
	"fmt"

	"github.com/woozymasta/texdecode/internal/kernel"
)

// CompressionFormat is a neutral tag identifying an encoded payload kind.
type CompressionFormat string

const (
	R                    CompressionFormat = "R"
	Rg                   CompressionFormat = "RG"
	Rgb                  CompressionFormat = "RGB"
	Rgba                 CompressionFormat = "RGBA"
	Bgra                 CompressionFormat = "BGRA"
	Bc1                  CompressionFormat = "BC1"
	Bc1WithAlpha         CompressionFormat = "BC1A"
	Bc2                  CompressionFormat = "BC2"
	Bc3                  CompressionFormat = "BC3"
	Bc4                  CompressionFormat = "BC4"
	Bc5                  CompressionFormat = "BC5"
	Bc7                  CompressionFormat = "BC7"
	Atc                  CompressionFormat = "ATC"
	AtcExplicitAlpha     CompressionFormat = "ATCA"
	AtcInterpolatedAlpha CompressionFormat = "ATCI"
)

// ErrUnsupportedFormat is returned for any identifier not in the registry.
var ErrUnsupportedFormat = fmt.Errorf("registry: unsupported format")

// Entry describes everything the orchestrator needs to decode one format.
type Entry struct {
	Format       CompressionFormat
	BlockBytes   int
	Compressed   bool
	BlockW       int
	BlockH       int
	NewKernel    func(opts KernelOptions) kernel.Decoder
}

// KernelOptions carries the handful of decoder options that affect kernel
// construction (as opposed to orchestration).
type KernelOptions struct {
	RedAsLuminance bool
}

var entries = map[CompressionFormat]Entry{
	R: {Format: R, BlockBytes: 1, Compressed: false, BlockW: 1, BlockH: 1,
		NewKernel: func(o KernelOptions) kernel.Decoder { return kernel.RawR{RedAsLuminance: o.RedAsLuminance} }},
	Rg: {Format: Rg, BlockBytes: 2, Compressed: false, BlockW: 1, BlockH: 1,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.RawRG{} }},
	Rgb: {Format: Rgb, BlockBytes: 3, Compressed: false, BlockW: 1, BlockH: 1,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.RawRGB{} }},
	Rgba: {Format: Rgba, BlockBytes: 4, Compressed: false, BlockW: 1, BlockH: 1,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.RawRGBA{} }},
	Bgra: {Format: Bgra, BlockBytes: 4, Compressed: false, BlockW: 1, BlockH: 1,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.RawBGRA{} }},
	Bc1: {Format: Bc1, BlockBytes: 8, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.BC1{} }},
	Bc1WithAlpha: {Format: Bc1WithAlpha, BlockBytes: 8, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.BC1WithAlpha{} }},
	Bc2: {Format: Bc2, BlockBytes: 16, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.BC2{} }},
	Bc3: {Format: Bc3, BlockBytes: 16, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.BC3{} }},
	Bc4: {Format: Bc4, BlockBytes: 8, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(o KernelOptions) kernel.Decoder { return kernel.BC4{RedAsLuminance: o.RedAsLuminance} }},
	Bc5: {Format: Bc5, BlockBytes: 16, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.BC5{} }},
	Bc7: {Format: Bc7, BlockBytes: 16, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.BC7{} }},
	Atc: {Format: Atc, BlockBytes: 8, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.ATC{} }},
	AtcExplicitAlpha: {Format: AtcExplicitAlpha, BlockBytes: 16, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.AtcExplicitAlpha{} }},
	AtcInterpolatedAlpha: {Format: AtcInterpolatedAlpha, BlockBytes: 16, Compressed: true, BlockW: 4, BlockH: 4,
		NewKernel: func(KernelOptions) kernel.Decoder { return kernel.AtcInterpolatedAlpha{} }},
}

// Lookup returns the registry entry for a CompressionFormat.
func Lookup(format CompressionFormat) (Entry, error) {
	e, ok := entries[format]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return e, nil
}

// BufferSize returns the required encoded-buffer length for a format at W×H,
// per spec: block_bytes * ceil(W/4) * ceil(H/4) for compressed formats, or
// bytes_per_pixel * W * H for raw formats.
func BufferSize(format CompressionFormat, width, height int) (int, error) {
	e, err := Lookup(format)
	if err != nil {
		return 0, err
	}
	if !e.Compressed {
		return e.BlockBytes * width * height, nil
	}
	bw := (width + 3) / 4
	bh := (height + 3) / 4
	return e.BlockBytes * bw * bh, nil
}
