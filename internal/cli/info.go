package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/texdecode/internal/container/dds"
	"github.com/woozymasta/texdecode/internal/container/ktx"
)

// CmdInfo prints a container's resolved format, dimensions and mip count
// without decoding any pixel data.
type CmdInfo struct {
	DDSBC1Alpha bool `long:"dds-bc1-alpha" description:"Same tie-break as decode --dds-bc1-alpha" default:"false"`

	Args struct {
		Input string `positional-arg-name:"input" description:"Input KTX or DDS file" required:"yes"`
	} `positional-args:"yes" required:"yes"`
}

// Execute runs the info command.
func (c *CmdInfo) Execute(args []string) error {
	f, err := os.Open(c.Args.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return fmt.Errorf("read magic: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind input: %w", err)
	}

	if string(magic) == dds.Magic {
		container, err := dds.Load(f, dds.Options{DDSBC1ExpectAlpha: c.DDSBC1Alpha})
		if err != nil {
			return fmt.Errorf("read DDS: %w", err)
		}
		fmt.Printf("format=%s width=%d height=%d mips=%d\n", container.Format, container.Width, container.Height, len(container.Mips))
		return nil
	}

	container, err := ktx.Load(f)
	if err != nil {
		return fmt.Errorf("read KTX: %w", err)
	}
	fmt.Printf("format=%s width=%d height=%d mips=%d\n", container.Format, container.Width, container.Height, len(container.Mips))
	return nil
}
