// Package texdecode decodes GPU block-compressed and raw texture payloads
// (KTX, DDS, or bare buffers) into row-major RGBA8 pixel arrays.
//
// The public surface exposes a handful of synchronous entry points plus thin
// goroutine-backed async wrappers, with options carried on a single
// defaults-tagged struct.
package texdecode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/creasty/defaults"

	"github.com/woozymasta/texdecode/internal/container/dds"
	"github.com/woozymasta/texdecode/internal/container/ktx"
	"github.com/woozymasta/texdecode/internal/kernel"
	"github.com/woozymasta/texdecode/internal/orchestrator"
	"github.com/woozymasta/texdecode/internal/registry"
)

// CompressionFormat re-exports the registry's format tag.
type CompressionFormat = registry.CompressionFormat

// Re-exported format constants, spec.md §3.
const (
	R                    = registry.R
	Rg                   = registry.Rg
	Rgb                  = registry.Rgb
	Rgba                 = registry.Rgba
	Bgra                 = registry.Bgra
	Bc1                  = registry.Bc1
	Bc1WithAlpha         = registry.Bc1WithAlpha
	Bc2                  = registry.Bc2
	Bc3                  = registry.Bc3
	Bc4                  = registry.Bc4
	Bc5                  = registry.Bc5
	Bc7                  = registry.Bc7
	Atc                  = registry.Atc
	AtcExplicitAlpha     = registry.AtcExplicitAlpha
	AtcInterpolatedAlpha = registry.AtcInterpolatedAlpha
)

// Error taxonomy, spec.md §7. All are sentinel values comparable with errors.Is.
var (
	ErrUnsupportedFormat  = registry.ErrUnsupportedFormat
	ErrLengthMismatch     = errors.New("texdecode: length mismatch")
	ErrTruncated          = errors.New("texdecode: truncated stream")
	ErrInvalidShape       = errors.New("texdecode: output grid is not 4x4")
	ErrCancelled          = orchestrator.ErrCancelled
	ErrMalformedContainer = errors.New("texdecode: malformed container")
)

// ColorRGBA is one decoded pixel.
type ColorRGBA = kernel.ColorRGBA

// RawBlock4x4 is one decoded 4x4 block, row-major within the block.
type RawBlock4x4 = kernel.RawBlock4x4

// DecodedImage is a single row-major RGBA8 mip level.
type DecodedImage struct {
	Width, Height int
	Pix           []byte
}

// Decoded2D wraps a DecodedImage with an explicit logical (H,W) shape view.
// It never copies Pix.
type Decoded2D struct {
	DecodedImage
	Rows, Cols int
}

// DecoderOptions controls format disambiguation and decode concurrency. Zero
// value plus defaults.Set yields the documented defaults; TaskCount resolves
// to runtime.GOMAXPROCS(0) after defaulting since creasty/defaults cannot
// express a runtime-computed default.
type DecoderOptions struct {
	RedAsLuminance    bool             `default:"false"`
	DDSBC1ExpectAlpha bool             `default:"false"`
	IsParallel        bool             `default:"true"`
	TaskCount         int              `default:"0"`
	Progress          func(float64)
}

// NewDecoderOptions returns DecoderOptions with spec defaults applied.
func NewDecoderOptions() DecoderOptions {
	opts := DecoderOptions{}
	_ = defaults.Set(&opts)
	if opts.TaskCount <= 0 {
		opts.TaskCount = runtime.GOMAXPROCS(0)
	}
	return opts
}

func (o DecoderOptions) orchestratorOptions(totalBlocks int64) orchestrator.Options {
	return orchestrator.Options{
		Parallel:  o.IsParallel,
		TaskCount: o.TaskCount,
		Progress:  orchestrator.NewProgress(totalBlocks, o.Progress),
	}
}

func (o DecoderOptions) kernelOptions() registry.KernelOptions {
	return registry.KernelOptions{RedAsLuminance: o.RedAsLuminance}
}

// BlockSize returns the encoded byte size of one block (or one pixel, for
// raw formats) for fmt.
func BlockSize(format CompressionFormat) (int, error) {
	e, err := registry.Lookup(format)
	if err != nil {
		return 0, err
	}
	return e.BlockBytes, nil
}

// BlockCount returns the number of 4x4 (or 1x1, for raw) units covering a
// W×H image, accounting for non-multiple-of-4 clipping.
func BlockCount(format CompressionFormat, width, height int) (int, error) {
	e, err := registry.Lookup(format)
	if err != nil {
		return 0, err
	}
	bw := (width + e.BlockW - 1) / e.BlockW
	bh := (height + e.BlockH - 1) / e.BlockH
	return bw * bh, nil
}

// GetBufferSize returns the required encoded-buffer length for format at W×H.
func GetBufferSize(format CompressionFormat, width, height int) (int, error) {
	return registry.BufferSize(format, width, height)
}

// DecodeRaw decodes a complete encoded buffer for a single W×H image.
func DecodeRaw(ctx context.Context, data []byte, width, height int, format CompressionFormat, opts DecoderOptions) (DecodedImage, error) {
	size, err := registry.BufferSize(format, width, height)
	if err != nil {
		return DecodedImage{}, err
	}
	if len(data) != size {
		return DecodedImage{}, fmt.Errorf("%w: want %d bytes, got %d", ErrLengthMismatch, size, len(data))
	}

	e, err := registry.Lookup(format)
	if err != nil {
		return DecodedImage{}, err
	}
	k := e.NewKernel(opts.kernelOptions())

	count, err := BlockCount(format, width, height)
	if err != nil {
		return DecodedImage{}, err
	}

	pix, err := orchestrator.AssembleMip(ctx, k, data, width, height, e.BlockW, e.BlockH, opts.orchestratorOptions(int64(count)))
	if err != nil {
		return DecodedImage{}, translateOrchestratorErr(err)
	}
	return DecodedImage{Width: width, Height: height, Pix: pix}, nil
}

// DecodeRawStream reads exactly GetBufferSize(format,W,H) bytes from r and
// decodes them.
func DecodeRawStream(ctx context.Context, r io.Reader, width, height int, format CompressionFormat, opts DecoderOptions) (DecodedImage, error) {
	size, err := registry.BufferSize(format, width, height)
	if err != nil {
		return DecodedImage{}, err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return DecodedImage{}, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return DecodeRaw(ctx, buf, width, height, format, opts)
}

// DecodeBlock decodes a single encoded block for a compressed format.
func DecodeBlock(block []byte, format CompressionFormat) (RawBlock4x4, error) {
	e, err := registry.Lookup(format)
	if err != nil {
		return RawBlock4x4{}, err
	}
	if !e.Compressed {
		return RawBlock4x4{}, fmt.Errorf("%w: %q is a raw format", ErrUnsupportedFormat, format)
	}
	if len(block) != e.BlockBytes {
		return RawBlock4x4{}, fmt.Errorf("%w: want %d bytes, got %d", ErrLengthMismatch, e.BlockBytes, len(block))
	}
	k := e.NewKernel(registry.KernelOptions{})
	return k.DecodeBlock(block)
}

// DecodeBlockStream reads one encoded block from r into outGrid (which must
// be a 4x4 grid) and returns the number of bytes consumed. It returns 0, nil
// on a clean EOF before any byte is read.
func DecodeBlockStream(r io.Reader, format CompressionFormat, outGrid *RawBlock4x4) (int, error) {
	e, err := registry.Lookup(format)
	if err != nil {
		return 0, err
	}
	if !e.Compressed {
		return 0, fmt.Errorf("%w: %q is a raw format", ErrUnsupportedFormat, format)
	}
	if e.BlockW != 4 || e.BlockH != 4 {
		return 0, ErrInvalidShape
	}

	buf := make([]byte, e.BlockBytes)
	n, err := io.ReadFull(r, buf)
	if err == io.EOF && n == 0 {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	k := e.NewKernel(registry.KernelOptions{})
	block, err := k.DecodeBlock(buf)
	if err != nil {
		return 0, err
	}
	*outGrid = block
	return n, nil
}

// containerMips is the shape both dds.Container and ktx.Container expose,
// letting Decode/DecodeAllMipmaps/Decode2D share one walk over either.
type containerMips struct {
	format registry.CompressionFormat
	mips   []struct{ width, height int; data []byte }
}

func loadContainer(r io.Reader, opts DecoderOptions) (containerMips, error) {
	peek := make([]byte, 12)
	n, err := io.ReadFull(r, peek)
	if err != nil && err != io.ErrUnexpectedEOF {
		return containerMips{}, fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}
	head := io.MultiReader(bytes.NewReader(peek[:n]), r)

	if n >= 4 && string(peek[:4]) == "DDS " {
		c, err := dds.Load(head, dds.Options{DDSBC1ExpectAlpha: opts.DDSBC1ExpectAlpha})
		if err != nil {
			return containerMips{}, translateContainerErr(err)
		}
		out := containerMips{format: c.Format}
		for _, m := range c.Mips {
			out.mips = append(out.mips, struct {
				width, height int
				data          []byte
			}{m.Width, m.Height, m.Data})
		}
		return out, nil
	}

	if n >= 12 {
		c, err := ktx.Load(head)
		if err != nil {
			return containerMips{}, translateContainerErr(err)
		}
		out := containerMips{format: c.Format}
		for _, m := range c.Mips {
			out.mips = append(out.mips, struct {
				width, height int
				data          []byte
			}{m.Width, m.Height, m.Data})
		}
		return out, nil
	}

	return containerMips{}, ErrMalformedContainer
}

// Decode reads a container (KTX or DDS, sniffed from the magic) and decodes
// its base mip level.
func Decode(ctx context.Context, r io.Reader, opts DecoderOptions) (DecodedImage, error) {
	mips, err := DecodeAllMipmaps(ctx, r, opts)
	if err != nil {
		return DecodedImage{}, err
	}
	if len(mips) == 0 {
		return DecodedImage{}, ErrMalformedContainer
	}
	return mips[0], nil
}

// DecodeAllMipmaps reads a container and decodes every mip level on face 0.
func DecodeAllMipmaps(ctx context.Context, r io.Reader, opts DecoderOptions) ([]DecodedImage, error) {
	c, err := loadContainer(r, opts)
	if err != nil {
		return nil, err
	}
	e, err := registry.Lookup(c.format)
	if err != nil {
		return nil, err
	}
	k := e.NewKernel(opts.kernelOptions())

	var total int64
	for _, m := range c.mips {
		count, err := BlockCount(c.format, m.width, m.height)
		if err != nil {
			return nil, err
		}
		total += int64(count)
	}
	orchOpts := opts.orchestratorOptions(total)

	images := make([]DecodedImage, 0, len(c.mips))
	for _, m := range c.mips {
		if err := ctx.Err(); err != nil {
			return nil, ErrCancelled
		}
		pix, err := orchestrator.AssembleMip(ctx, k, m.data, m.width, m.height, e.BlockW, e.BlockH, orchOpts)
		if err != nil {
			return nil, translateOrchestratorErr(err)
		}
		images = append(images, DecodedImage{Width: m.width, Height: m.height, Pix: pix})
	}
	return images, nil
}

// Decode2D is Decode, with the result wrapped in an explicit row/col shape
// view. It does not copy Pix.
func Decode2D(ctx context.Context, r io.Reader, opts DecoderOptions) (Decoded2D, error) {
	img, err := Decode(ctx, r, opts)
	if err != nil {
		return Decoded2D{}, err
	}
	return Decoded2D{DecodedImage: img, Rows: img.Height, Cols: img.Width}, nil
}

func translateOrchestratorErr(err error) error {
	if errors.Is(err, orchestrator.ErrLengthMismatch) {
		return fmt.Errorf("%w: %v", ErrLengthMismatch, err)
	}
	if errors.Is(err, orchestrator.ErrCancelled) {
		return ErrCancelled
	}
	return err
}

func translateContainerErr(err error) error {
	if errors.Is(err, registry.ErrUnsupportedFormat) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrMalformedContainer, err)
}
