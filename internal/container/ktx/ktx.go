// Package ktx reads KTX v1 container headers and yields per-mip encoded byte
// slices for face 0 / array layer 0, without decoding any pixel data.
//
// The reader shape (sequential wrapped-error field reads, a face-0-only mip
// walk returning raw byte slices) follows the same pattern as
// internal/container/dds, adapted to KTX's (image_size uint32, data []byte)
// mip-size-prefixed layout instead of DDS's implicit contiguous layout.
package ktx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/woozymasta/texdecode/internal/registry"
)

// Identifier is the 12-byte KTX v1 magic.
var Identifier = [12]byte{0xAB, 'K', 'T', 'X', ' ', '1', '1', 0xBB, '\r', '\n', 0x1A, '\n'}

const headerFieldCount = 13

// Header mirrors the fixed portion of the KTX v1 header following the
// identifier and endianness fields.
type Header struct {
	GLType                uint32
	GLTypeSize            uint32
	GLFormat              uint32
	GLInternalFormat      uint32
	GLBaseInternalFormat  uint32
	PixelWidth            uint32
	PixelHeight           uint32
	PixelDepth            uint32
	NumberOfArrayElements uint32
	NumberOfFaces         uint32
	NumberOfMipmapLevels  uint32
	BytesOfKeyValueData   uint32
}

// Mip is one mip level's encoded bytes on face 0 / array layer 0.
type Mip struct {
	Width, Height int
	Data          []byte
}

// Container is the adapter's output: a resolved CompressionFormat and the
// mip chain for face 0, array layer 0.
type Container struct {
	Format registry.CompressionFormat
	Width  int
	Height int
	Mips   []Mip
}

// Load reads a whole KTX v1 stream and resolves it into a Container.
func Load(r io.Reader) (*Container, error) {
	var id [12]byte
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return nil, fmt.Errorf("reading identifier: %w", err)
	}
	if id != Identifier {
		return nil, fmt.Errorf("invalid KTX identifier")
	}

	byteOrder, err := readEndianness(r)
	if err != nil {
		return nil, err
	}

	header, err := readHeader(r, byteOrder)
	if err != nil {
		return nil, fmt.Errorf("reading KTX header: %w", err)
	}

	if header.BytesOfKeyValueData > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(header.BytesOfKeyValueData)); err != nil {
			return nil, fmt.Errorf("skipping key/value data: %w", err)
		}
	}

	format, err := fromGLInternalFormat(header.GLInternalFormat)
	if err != nil {
		return nil, err
	}

	mipCount := int(header.NumberOfMipmapLevels)
	if mipCount == 0 {
		mipCount = 1
	}
	faces := int(header.NumberOfFaces)
	if faces == 0 {
		faces = 1
	}
	arrayElements := int(header.NumberOfArrayElements)
	if arrayElements == 0 {
		arrayElements = 1
	}

	mips := make([]Mip, 0, mipCount)
	for level := 0; level < mipCount; level++ {
		var imageSizeBuf [4]byte
		if _, err := io.ReadFull(r, imageSizeBuf[:]); err != nil {
			return nil, fmt.Errorf("reading image size for mip %d: %w", level, err)
		}
		imageSize := byteOrder.Uint32(imageSizeBuf[:])

		w := mipDimension(int(header.PixelWidth), level)
		h := mipDimension(int(header.PixelHeight), level)

		data := make([]byte, imageSize)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("reading data for mip %d: %w", level, err)
		}

		remainder := imageSize % 4
		if remainder != 0 {
			pad := 4 - remainder
			if _, err := io.CopyN(io.Discard, r, int64(pad)); err != nil {
				return nil, fmt.Errorf("skipping mip %d padding: %w", level, err)
			}
		}

		mips = append(mips, Mip{Width: w, Height: h, Data: faceZeroSlice(data, faces, arrayElements)})
	}

	return &Container{Format: format, Width: int(header.PixelWidth), Height: int(header.PixelHeight), Mips: mips}, nil
}

// faceZeroSlice returns only the leading array-layer-0/face-0 portion of a
// mip's data blob when more than one face/layer is packed into it.
func faceZeroSlice(data []byte, faces, arrayElements int) []byte {
	total := faces * arrayElements
	if total <= 1 {
		return data
	}
	per := len(data) / total
	return data[:per]
}

func mipDimension(base, level int) int {
	result := base >> uint(level)
	if result < 1 {
		return 1
	}
	return result
}

func readEndianness(r io.Reader) (binary.ByteOrder, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("reading endianness field: %w", err)
	}
	switch {
	case bytes.Equal(buf[:], []byte{0x01, 0x02, 0x03, 0x04}):
		return binary.LittleEndian, nil
	case bytes.Equal(buf[:], []byte{0x04, 0x03, 0x02, 0x01}):
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("invalid endianness marker")
	}
}

func readHeader(r io.Reader, byteOrder binary.ByteOrder) (*Header, error) {
	var h Header
	fields := []*uint32{
		&h.GLType, &h.GLTypeSize, &h.GLFormat, &h.GLInternalFormat, &h.GLBaseInternalFormat,
		&h.PixelWidth, &h.PixelHeight, &h.PixelDepth,
		&h.NumberOfArrayElements, &h.NumberOfFaces, &h.NumberOfMipmapLevels, &h.BytesOfKeyValueData,
	}
	if len(fields) != headerFieldCount-1 {
		return nil, fmt.Errorf("internal error: header field count mismatch")
	}
	for i, f := range fields {
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("reading header field %d: %w", i, err)
		}
		*f = byteOrder.Uint32(buf[:])
	}
	if h.PixelWidth == 0 {
		return nil, fmt.Errorf("invalid header: pixelWidth is zero")
	}
	return &h, nil
}

// fromGLInternalFormat maps the glInternalFormat token to a
// registry.CompressionFormat. KTX has no DDS-style alpha flag ambiguity: the
// GL token for BC1 already distinguishes the opaque and alpha variants.
func fromGLInternalFormat(glInternalFormat uint32) (registry.CompressionFormat, error) {
	switch glInternalFormat {
	case 0x83F0: // COMPRESSED_RGB_S3TC_DXT1_EXT
		return registry.Bc1, nil
	case 0x83F1: // COMPRESSED_RGBA_S3TC_DXT1_EXT
		return registry.Bc1WithAlpha, nil
	case 0x83F2: // COMPRESSED_RGBA_S3TC_DXT3_EXT
		return registry.Bc2, nil
	case 0x83F3: // COMPRESSED_RGBA_S3TC_DXT5_EXT
		return registry.Bc3, nil
	case 0x8DBB: // COMPRESSED_RED_RGTC1
		return registry.Bc4, nil
	case 0x8DBD: // COMPRESSED_RG_RGTC2
		return registry.Bc5, nil
	case 0x8E8C: // COMPRESSED_RGBA_BPTC_UNORM
		return registry.Bc7, nil
	case 0x8C92: // ATC_RGB_AMD
		return registry.Atc, nil
	case 0x8C93: // ATC_RGBA_EXPLICIT_ALPHA_AMD
		return registry.AtcExplicitAlpha, nil
	case 0x87EE: // ATC_RGBA_INTERPOLATED_ALPHA_AMD
		return registry.AtcInterpolatedAlpha, nil
	case 0x8229: // R8
		return registry.R, nil
	case 0x822B: // RG8
		return registry.Rg, nil
	case 0x8051: // RGB8
		return registry.Rgb, nil
	case 0x8058: // RGBA8
		return registry.Rgba, nil
	default:
		return "", fmt.Errorf("%w: glInternalFormat 0x%x", registry.ErrUnsupportedFormat, glInternalFormat)
	}
}
