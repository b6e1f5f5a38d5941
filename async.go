package texdecode

import (
	"context"
	"io"
)

// Result carries either a value or an error from an async decode call.
type Result[T any] struct {
	Value T
	Err   error
}

// DecodeRawAsync submits DecodeRaw to a goroutine and returns a channel that
// receives exactly one Result. Cancelling ctx unblocks the caller's wait the
// same way ctx.Err() does for the synchronous call.
func DecodeRawAsync(ctx context.Context, data []byte, width, height int, format CompressionFormat, opts DecoderOptions) <-chan Result[DecodedImage] {
	out := make(chan Result[DecodedImage], 1)
	go func() {
		img, err := DecodeRaw(ctx, data, width, height, format, opts)
		out <- Result[DecodedImage]{Value: img, Err: err}
	}()
	return out
}

// DecodeAsync submits Decode to a goroutine.
func DecodeAsync(ctx context.Context, r io.Reader, opts DecoderOptions) <-chan Result[DecodedImage] {
	out := make(chan Result[DecodedImage], 1)
	go func() {
		img, err := Decode(ctx, r, opts)
		out <- Result[DecodedImage]{Value: img, Err: err}
	}()
	return out
}

// DecodeAllMipmapsAsync submits DecodeAllMipmaps to a goroutine.
func DecodeAllMipmapsAsync(ctx context.Context, r io.Reader, opts DecoderOptions) <-chan Result[[]DecodedImage] {
	out := make(chan Result[[]DecodedImage], 1)
	go func() {
		imgs, err := DecodeAllMipmaps(ctx, r, opts)
		out <- Result[[]DecodedImage]{Value: imgs, Err: err}
	}()
	return out
}

// DecodeBlockAsync submits DecodeBlock to a goroutine.
func DecodeBlockAsync(block []byte, format CompressionFormat) <-chan Result[RawBlock4x4] {
	out := make(chan Result[RawBlock4x4], 1)
	go func() {
		b, err := DecodeBlock(block, format)
		out <- Result[RawBlock4x4]{Value: b, Err: err}
	}()
	return out
}
