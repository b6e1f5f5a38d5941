// Package cli implements the command-line interface for texdecode.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

// Root defines global CLI flags.
type Root struct{}

// CmdVersion prints build metadata.
type CmdVersion struct{}

// Execute runs the version command.
func (c *CmdVersion) Execute(args []string) error {
	fmt.Println("texdecode", buildVersion)
	return nil
}

// Run parses arguments and executes the selected command.
func Run(args []string) error {
	var root Root

	parser := flags.NewParser(&root, flags.Default)
	parser.Name = filepath.Base(os.Args[0])
	prog := parser.Name

	if _, err := parser.AddCommand(
		"decode",
		"Decode a single KTX/DDS/raw texture to a flat RGBA8 dump",
		fmt.Sprintf(
			`Decode one texture file into raw RGBA8 bytes.

Examples:
  %s decode tex.dds tex.rgba
  %s decode tex.raw tex.rgba --format BC1 --width 256 --height 256
  %s decode tex.ktx tex.rgba --cache`,
			prog, prog, prog,
		),
		&CmdDecode{},
	); err != nil {
		return err
	}

	if _, err := parser.AddCommand(
		"info",
		"Print a container's resolved format, dimensions and mip count",
		fmt.Sprintf(
			`Inspect a KTX or DDS container without decoding pixels.

Examples:
  %s info tex.dds
  %s info tex.ktx`,
			prog, prog,
		),
		&CmdInfo{},
	); err != nil {
		return err
	}

	if _, err := parser.AddCommand(
		"batch",
		"Decode every entry listed in a YAML manifest",
		fmt.Sprintf(
			`Run multiple decode jobs from a manifest file.

Examples:
  %s batch ./textures.yaml
  %s batch ./textures.yaml --project ui`,
			prog, prog,
		),
		&CmdBatch{},
	); err != nil {
		return err
	}

	if _, err := parser.AddCommand(
		"version",
		"Print build metadata",
		fmt.Sprintf(
			`Show build information.

Examples:
  %s version`,
			prog,
		),
		&CmdVersion{},
	); err != nil {
		return err
	}

	_, err := parser.ParseArgs(args)
	if err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	return nil
}
