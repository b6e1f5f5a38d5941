package cli

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

const cacheDirName = ".texdecode-cache"

// computeJobHash hashes the input file's bytes together with the flags that
// affect its decoded output, so a cache entry invalidates itself whenever
// either changes.
func computeJobHash(opts *CmdDecode) (uint64, error) {
	f, err := os.Open(opts.Args.Input)
	if err != nil {
		return 0, fmt.Errorf("open %q: %w", opts.Args.Input, err)
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("hash %q: %w", opts.Args.Input, err)
	}

	fmt.Fprintf(h, "\x00format=%s\x00w=%d\x00h=%d\x00mips=%t\x00lum=%t\x00dds_alpha=%t",
		opts.Format, opts.Width, opts.Height, opts.AllMipmaps, opts.Luminance, opts.DDSBC1Alpha)

	return h.Sum64(), nil
}

func cachePath(opts *CmdDecode) string {
	return filepath.Join(cacheDirName, filepath.Base(opts.Args.Output)+".hash")
}

// tryCacheHit reports whether opts.Args.Output already reflects the current
// input bytes and flags, per the cache file's recorded hash.
func tryCacheHit(opts *CmdDecode) (bool, error) {
	nextHash, err := computeJobHash(opts)
	if err != nil {
		return false, err
	}

	path := cachePath(opts)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read cache: %w", err)
	}
	if len(data) != 8 {
		return false, nil
	}
	prevHash := binary.LittleEndian.Uint64(data)
	if prevHash != nextHash {
		return false, nil
	}
	if _, err := os.Stat(opts.Args.Output); err != nil {
		return false, nil
	}

	return true, nil
}

func writeCacheEntry(opts *CmdDecode) error {
	hash, err := computeJobHash(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cacheDirName, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, hash)
	if err := os.WriteFile(cachePath(opts), buf, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}
