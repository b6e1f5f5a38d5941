package dds

import (
	"fmt"
	"io"

	"github.com/woozymasta/texdecode/internal/registry"
)

// Mip is one mip level's encoded bytes on face 0, with its own dimensions.
type Mip struct {
	Width, Height int
	Data          []byte
}

// Container is the adapter's output: a resolved CompressionFormat and the
// mip chain for face 0. It never decodes pixel data.
type Container struct {
	Format registry.CompressionFormat
	Width  int
	Height int
	Mips   []Mip
}

// Options mirrors the subset of DecoderOptions the adapter needs to resolve
// the BC1 alpha-variant tie-break (spec invariant v).
type Options struct {
	DDSBC1ExpectAlpha bool
}

// Load reads a whole DDS stream (header, optional DX10 header, and the face-0
// mip chain) and resolves it into a Container. It never decodes pixels; mip
// byte slices are the raw encoded payload borrowed from the stream.
func Load(r io.Reader, opts Options) (*Container, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("reading DDS header: %w", err)
	}
	dx10, err := ReadHeaderDx10(r, header)
	if err != nil {
		return nil, fmt.Errorf("reading DX10 header: %w", err)
	}

	format, err := detectFormat(header, dx10, opts)
	if err != nil {
		return nil, err
	}

	mipCount := 1
	if header.Caps&CapsMipMap != 0 && header.MipMapCount > 0 {
		mipCount = int(header.MipMapCount)
	}

	mips := make([]Mip, 0, mipCount)
	for level := 0; level < mipCount; level++ {
		w := mipDimension(int(header.Width), level)
		h := mipDimension(int(header.Height), level)

		size, err := registry.BufferSize(format, w, h)
		if err != nil {
			return nil, err
		}

		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("reading mip %d data: %w", level, err)
		}

		mips = append(mips, Mip{Width: w, Height: h, Data: data})
	}

	return &Container{Format: format, Width: int(header.Width), Height: int(header.Height), Mips: mips}, nil
}

func mipDimension(base, level int) int {
	result := base >> uint(level)
	if result < 1 {
		return 1
	}
	return result
}

// detectFormat resolves the DDS format identifier (DX10 DXGI code, fourCC, or
// RGB/luminance mask) into a registry.CompressionFormat, applying the BC1
// alpha tie-break from spec invariant v: DDS alpha flag present wins, then
// the caller's dds_bc1_expect_alpha option, then plain Bc1.
func detectFormat(header *Header, dx10 *HeaderDx10, opts Options) (registry.CompressionFormat, error) {
	bc1Variant := func() registry.CompressionFormat {
		if header.PixelFormat.Flags&PFAlphaPixels != 0 {
			return registry.Bc1WithAlpha
		}
		if opts.DDSBC1ExpectAlpha {
			return registry.Bc1WithAlpha
		}
		return registry.Bc1
	}

	if dx10 != nil {
		return fromDXGIFormat(dx10.DXGIFormat, bc1Variant)
	}

	pf := header.PixelFormat
	if pf.Flags&PFFourCC != 0 {
		switch fourCCString(pf.FourCC) {
		case "DXT1":
			return bc1Variant(), nil
		case "DXT2", "DXT3":
			return registry.Bc2, nil
		case "DXT4", "DXT5":
			return registry.Bc3, nil
		case "ATI1", "BC4U", "BC4S":
			return registry.Bc4, nil
		case "ATI2", "BC5U", "BC5S":
			return registry.Bc5, nil
		default:
			return "", fmt.Errorf("%w: fourCC %q", registry.ErrUnsupportedFormat, fourCCString(pf.FourCC))
		}
	}

	if pf.Flags&PFRGB != 0 && pf.Flags&PFAlphaPixels != 0 && pf.RGBBitCount == 32 {
		if pf.RBitMask == 0x000000ff && pf.GBitMask == 0x0000ff00 && pf.BBitMask == 0x00ff0000 {
			return registry.Rgba, nil
		}
		if pf.RBitMask == 0x00ff0000 && pf.GBitMask == 0x0000ff00 && pf.BBitMask == 0x000000ff {
			return registry.Bgra, nil
		}
	}
	if pf.Flags&PFLuminance != 0 && pf.RGBBitCount == 8 {
		return registry.R, nil
	}

	return "", fmt.Errorf("%w: DDS pixel format flags 0x%x", registry.ErrUnsupportedFormat, pf.Flags)
}

func fromDXGIFormat(dxgi uint32, bc1Variant func() registry.CompressionFormat) (registry.CompressionFormat, error) {
	switch dxgi {
	case 71, 72: // BC1_TYPELESS, BC1_UNORM
		return bc1Variant(), nil
	case 74, 75: // BC2_TYPELESS, BC2_UNORM
		return registry.Bc2, nil
	case 77, 78: // BC3_TYPELESS, BC3_UNORM
		return registry.Bc3, nil
	case 79, 80: // BC4_TYPELESS, BC4_UNORM
		return registry.Bc4, nil
	case 82, 83: // BC5_TYPELESS, BC5_UNORM
		return registry.Bc5, nil
	case 97, 98: // BC7_TYPELESS, BC7_UNORM
		return registry.Bc7, nil
	case 87: // B8G8R8A8_UNORM
		return registry.Bgra, nil
	case 28: // R8G8B8A8_UNORM
		return registry.Rgba, nil
	case 61: // R8_UNORM
		return registry.R, nil
	case 49: // R8G8_UNORM
		return registry.Rg, nil
	default:
		return "", fmt.Errorf("%w: DXGI format %d", registry.ErrUnsupportedFormat, dxgi)
	}
}

func fourCCString(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}
