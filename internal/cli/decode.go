package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/woozymasta/texdecode"
)

// CmdDecode decodes a single texture file into a flat RGBA8 dump.
type CmdDecode struct {
	Format      string `short:"f" long:"format" description:"Raw payload format (R,RG,RGB,RGBA,BGRA,BC1,BC1A,BC2,BC3,BC4,BC5,BC7,ATC,ATCA,ATCI); omit for containers (KTX/DDS)" yaml:"format"`
	Width       int    `short:"W" long:"width" description:"Image width, required for raw payloads" yaml:"width"`
	Height      int    `short:"H" long:"height" description:"Image height, required for raw payloads" yaml:"height"`
	AllMipmaps  bool   `short:"m" long:"all-mipmaps" description:"Decode every mip level instead of just the base" yaml:"all_mipmaps"`
	Luminance   bool   `short:"l" long:"luminance" description:"Replicate single-channel (R/BC4) output into green and blue" default:"false" yaml:"luminance"`
	DDSBC1Alpha bool   `long:"dds-bc1-alpha" description:"Treat DDS DXT1 payloads as the alpha-preserving BC1 variant when the container doesn't say" default:"false" yaml:"dds_bc1_alpha"`
	Sequential  bool   `long:"sequential" description:"Disable the parallel block-decode path" yaml:"sequential"`
	Tasks       int    `short:"t" long:"tasks" description:"Worker count for parallel decode, 0=hardware parallelism" default:"0" yaml:"tasks"`
	Cache       bool   `long:"cache" description:"Skip decoding when a .texdecode-cache entry matches the input" yaml:"cache"`

	Args struct {
		Input  string `positional-arg-name:"input" description:"Input texture file" required:"yes" yaml:"input"`
		Output string `positional-arg-name:"output" description:"Output raw RGBA8 file" required:"yes" yaml:"output"`
	} `positional-args:"yes" required:"yes" yaml:"args"`
}

// Execute runs the decode command.
func (c *CmdDecode) Execute(args []string) error {
	return runDecode(c)
}

func (c *CmdDecode) options() texdecode.DecoderOptions {
	tasks := c.Tasks
	if tasks <= 0 {
		tasks = runtime.GOMAXPROCS(0)
	}
	return texdecode.DecoderOptions{
		RedAsLuminance:    c.Luminance,
		DDSBC1ExpectAlpha: c.DDSBC1Alpha,
		IsParallel:        !c.Sequential,
		TaskCount:         tasks,
	}
}

func runDecode(opts *CmdDecode) error {
	if opts.Cache {
		if hit, err := tryCacheHit(opts); err != nil {
			return err
		} else if hit {
			fmt.Printf("cache hit, skipping %q\n", opts.Args.Input)
			return nil
		}
	}

	in, err := os.Open(opts.Args.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	ctx := context.Background()
	decoderOpts := opts.options()

	var pix []byte
	if opts.Format != "" {
		if opts.Width <= 0 || opts.Height <= 0 {
			return fmt.Errorf("--width and --height are required with --format")
		}
		data, err := os.ReadFile(opts.Args.Input)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		img, err := texdecode.DecodeRaw(ctx, data, opts.Width, opts.Height, texdecode.CompressionFormat(opts.Format), decoderOpts)
		if err != nil {
			return fmt.Errorf("decode raw: %w", err)
		}
		pix = img.Pix
	} else if opts.AllMipmaps {
		mips, err := texdecode.DecodeAllMipmaps(ctx, in, decoderOpts)
		if err != nil {
			return fmt.Errorf("decode mipmaps: %w", err)
		}
		for _, m := range mips {
			pix = append(pix, m.Pix...)
		}
	} else {
		img, err := texdecode.Decode(ctx, in, decoderOpts)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		pix = img.Pix
	}

	if err := os.WriteFile(opts.Args.Output, pix, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if opts.Cache {
		if err := writeCacheEntry(opts); err != nil {
			return err
		}
	}

	return nil
}
