// Package source reads pipeline input from a file or stdin. Compressed input
// (gzip or zstd) is detected by magic bytes and decompressed transparently.
package source

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"carnorm/internal/errors"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// DefaultMaxBytes bounds the decompressed input size.
const DefaultMaxBytes = 256 << 20

// ErrTooLarge is wrapped by errors for input beyond the size limit.
var ErrTooLarge = stderrors.New("input too large")

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Compression identifies an input encoding.
type Compression string

const (
	None Compression = "none"
	Gzip Compression = "gzip"
	Zstd Compression = "zstd"
)

// Reader reads complete inputs.
type Reader struct {
	// MaxBytes caps the decompressed size; 0 means DefaultMaxBytes.
	MaxBytes int64
	// Stdin is used for the "-" path; nil means os.Stdin.
	Stdin io.Reader
}

// Read reads the whole input at path with default limits.
func Read(path string) ([]byte, error) {
	return (&Reader{}).Read(path)
}

// Read reads the whole input at path ("-" for stdin). Any failure is an
// IOFailure error naming the path.
func (r *Reader) Read(path string) ([]byte, error) {
	if path == Stdin {
		in := r.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := r.ReadFrom(in)
		if err != nil {
			return nil, errors.NewIOFailure("stdin", err)
		}
		return data, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOFailure(path, err)
	}
	defer func() { _ = f.Close() }()

	data, err := r.ReadFrom(f)
	if err != nil {
		return nil, errors.NewIOFailure(path, err)
	}
	return data, nil
}

// ReadFrom reads everything from in, decompressing it if needed.
func (r *Reader) ReadFrom(in io.Reader) ([]byte, error) {
	br := bufio.NewReader(in)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	var body io.Reader = br
	switch Detect(head) {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer func() { _ = zr.Close() }()
		body = zr
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		body = zr
	}

	return readLimited(body, r.maxBytes())
}

func (r *Reader) maxBytes() int64 {
	if r.MaxBytes > 0 {
		return r.MaxBytes
	}
	return DefaultMaxBytes
}

// Detect reports the compression of a stream from its first bytes.
func Detect(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd
	case bytes.HasPrefix(head, gzipMagic):
		return Gzip
	}
	return None
}

func readLimited(in io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(in, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, max)
	}
	return data, nil
}
