// Package orchestrator walks a container's mipmap chain (or a single raw
// buffer), dispatches blocks to a kernel in parallel, re-assembles the pixel
// grid through the assembler, and reports progress/cancellation.
//
// The parallel path is grounded on the worker-pool shape used for code-block
// encoding in mrjoshuak-go-jpeg2000's encoder.go: a pre-filled, closed job
// channel drained by a fixed number of workers, a sync.WaitGroup plus a
// closer goroutine. Since blocks are independent and each chunk owns a
// disjoint slice of the output array, workers here write directly into
// pre-allocated slots instead of round-tripping through a result channel.
package orchestrator

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/woozymasta/texdecode/internal/assembler"
	"github.com/woozymasta/texdecode/internal/kernel"
)

// ErrCancelled is returned when the context is cancelled before or during a
// decode, including between mips or at a chunk boundary.
var ErrCancelled = errors.New("orchestrator: cancelled")

// ErrLengthMismatch is returned when an encoded payload is not a whole
// multiple of the kernel's block size.
var ErrLengthMismatch = errors.New("orchestrator: encoded length is not a multiple of the block size")

// Progress is a monotone, concurrency-safe block counter with an optional
// reporting callback. Reports are serialized, so the callback sees
// non-decreasing values. The zero value reports nothing.
type Progress struct {
	mu        sync.Mutex
	total     int64
	processed int64
	onReport  func(float64)
}

// NewProgress creates a tracker for total blocks across the whole call site
// (so callers that decode multiple mips pass the combined total once, up front).
func NewProgress(total int64, onReport func(float64)) *Progress {
	return &Progress{total: total, onReport: onReport}
}

func (p *Progress) advance(n int64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	done := atomic.AddInt64(&p.processed, n)
	if p.onReport != nil {
		total := atomic.LoadInt64(&p.total)
		if total <= 0 {
			p.onReport(1.0)
			return
		}
		p.onReport(float64(done) / float64(total))
	}
}

// Processed returns the current processed-block count.
func (p *Progress) Processed() int64 {
	if p == nil {
		return 0
	}
	return atomic.LoadInt64(&p.processed)
}

// Options controls how a decode call is scheduled.
type Options struct {
	Parallel  bool
	TaskCount int
	Progress  *Progress
}

func (o Options) workerCount(jobs int) int {
	n := o.TaskCount
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// DecodeBlocks partitions encoded into fixed-size blocks, decodes every block
// with k, and returns them in block order. It honors ctx cancellation
// between chunk boundaries in parallel mode, and updates opts.Progress by
// one per decoded block.
func DecodeBlocks(ctx context.Context, k kernel.Decoder, encoded []byte, opts Options) ([]kernel.RawBlock4x4, error) {
	blockBytes := k.BlockBytes()
	if blockBytes <= 0 || len(encoded)%blockBytes != 0 {
		return nil, ErrLengthMismatch
	}
	count := len(encoded) / blockBytes
	blocks := make([]kernel.RawBlock4x4, count)
	if count == 0 {
		return blocks, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, ErrCancelled
	}

	if !opts.Parallel || count <= 1 {
		for i := 0; i < count; i++ {
			off := i * blockBytes
			block, err := k.DecodeBlock(encoded[off : off+blockBytes])
			if err != nil {
				return nil, err
			}
			blocks[i] = block
			opts.Progress.advance(1)
		}
		return blocks, nil
	}

	numWorkers := opts.workerCount(count)
	chunkSize := (count + numWorkers - 1) / numWorkers

	type job struct{ start, end int }
	jobs := make(chan job, numWorkers)
	for start := 0; start < count; start += chunkSize {
		end := start + chunkSize
		if end > count {
			end = count
		}
		jobs <- job{start: start, end: end}
	}
	close(jobs)

	var wg sync.WaitGroup
	errCh := make(chan error, numWorkers)
	var cancelled int32

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					atomic.StoreInt32(&cancelled, 1)
					return
				}
				for i := j.start; i < j.end; i++ {
					off := i * blockBytes
					block, err := k.DecodeBlock(encoded[off : off+blockBytes])
					if err != nil {
						select {
						case errCh <- err:
						default:
						}
						return
					}
					blocks[i] = block
				}
				opts.Progress.advance(int64(j.end - j.start))
			}
		}()
	}

	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		return nil, err
	}
	if atomic.LoadInt32(&cancelled) == 1 || ctx.Err() != nil {
		return nil, ErrCancelled
	}

	return blocks, nil
}

// AssembleMip decodes one mip's encoded bytes with k and writes them into a
// fresh width*height*4 RGBA buffer via the assembler. blockW/blockH are the
// kernel's pixel extent per block (4x4 for compressed formats, 1x1 for raw).
func AssembleMip(ctx context.Context, k kernel.Decoder, encoded []byte, width, height, blockW, blockH int, opts Options) ([]byte, error) {
	blocks, err := DecodeBlocks(ctx, k, encoded, opts)
	if err != nil {
		return nil, err
	}
	blocksWide := (width + blockW - 1) / blockW
	out := make([]byte, width*height*4)
	assembler.Write(blocks, blocksWide, blockW, blockH, width, height, out)
	return out, nil
}
