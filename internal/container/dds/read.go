package dds

import (
	"encoding/binary"
	"fmt"
	"io"
)

func readDWORD(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadHeader reads the DDS magic and header.
func ReadHeader(r io.Reader) (*Header, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("invalid magic: expected %q, got %q", Magic, string(magic))
	}

	size, err := readDWORD(r)
	if err != nil {
		return nil, fmt.Errorf("reading header size: %w", err)
	}
	if size != HeaderSize {
		return nil, fmt.Errorf("invalid header size: expected %d, got %d", HeaderSize, size)
	}

	var h Header
	h.Size = size
	fields := []*uint32{&h.Flags, &h.Height, &h.Width, &h.PitchOrLinearSize, &h.Depth, &h.MipMapCount}
	for i, f := range fields {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading header field %d: %w", i, err)
		}
		*f = v
	}

	for i := 0; i < 11; i++ {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading reserved1[%d]: %w", i, err)
		}
		h.Reserved1[i] = v
	}

	pfSize, err := readDWORD(r)
	if err != nil {
		return nil, fmt.Errorf("reading pixel format size: %w", err)
	}
	if pfSize != PixelFormatSize {
		return nil, fmt.Errorf("invalid pixel format size: expected %d, got %d", PixelFormatSize, pfSize)
	}
	h.PixelFormat.Size = pfSize

	pfFields := []*uint32{
		&h.PixelFormat.Flags, &h.PixelFormat.FourCC, &h.PixelFormat.RGBBitCount,
		&h.PixelFormat.RBitMask, &h.PixelFormat.GBitMask, &h.PixelFormat.BBitMask, &h.PixelFormat.ABitMask,
	}
	for i, f := range pfFields {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading pixel format field %d: %w", i, err)
		}
		*f = v
	}

	capsFields := []*uint32{&h.Caps, &h.Caps2, &h.Caps3, &h.Caps4, &h.Reserved2}
	for i, f := range capsFields {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading caps field %d: %w", i, err)
		}
		*f = v
	}

	if h.Flags&HeaderFlagsTexture != HeaderFlagsTexture {
		return nil, fmt.Errorf("invalid header flags: required fields not set (flags: 0x%x)", h.Flags)
	}

	return &h, nil
}

// ReadHeaderDx10 reads the DX10 extension header if the pixel format's
// fourCC says it is present; otherwise it returns (nil, nil).
func ReadHeaderDx10(r io.Reader, header *Header) (*HeaderDx10, error) {
	if (header.PixelFormat.Flags&PFFourCC == 0) || header.PixelFormat.FourCC != FourCCDX10 {
		return nil, nil
	}

	var dx10 HeaderDx10
	fields := []*uint32{&dx10.DXGIFormat, &dx10.ResourceDimension, &dx10.MiscFlag, &dx10.ArraySize, &dx10.MiscFlags2}
	for i, f := range fields {
		v, err := readDWORD(r)
		if err != nil {
			return nil, fmt.Errorf("reading dx10 field %d: %w", i, err)
		}
		*f = v
	}

	return &dx10, nil
}
