package source

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"carnorm/internal/errors"
)

const sample = `[{"Name":"vw","Horsepower":100}]`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstded(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func TestRead(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{"plain", func(t *testing.T) []byte { return []byte(sample) }},
		{"gzip", func(t *testing.T) []byte { return gzipped(t, sample) }},
		{"zstd", func(t *testing.T) []byte { return zstded(t, sample) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "cars.json", tt.data(t))

			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if string(got) != sample {
				t.Errorf("Read() = %q, want %q", got, sample)
			}
		})
	}
}

func TestRead_Stdin(t *testing.T) {
	r := &Reader{Stdin: strings.NewReader(sample)}

	got, err := r.Read(Stdin)
	if err != nil {
		t.Fatalf("Read(-) error = %v", err)
	}
	if string(got) != sample {
		t.Errorf("Read(-) = %q, want %q", got, sample)
	}
}

func TestRead_ShortInput(t *testing.T) {
	got, err := (&Reader{}).ReadFrom(strings.NewReader("[]"))
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("ReadFrom() = %q, want %q", got, "[]")
	}
}

func TestRead_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := Read(path)
	var carErr *errors.CarError
	if !stderrors.As(err, &carErr) {
		t.Fatalf("Read() error = %v, want *errors.CarError", err)
	}
	if carErr.Code != errors.IOFailure {
		t.Errorf("Code = %v, want %v", carErr.Code, errors.IOFailure)
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestRead_TooLarge(t *testing.T) {
	path := writeFile(t, "big.json", []byte(sample))

	_, err := (&Reader{MaxBytes: 4}).Read(path)
	if err == nil {
		t.Fatal("Read() should fail when input exceeds MaxBytes")
	}
	if !stderrors.Is(err, ErrTooLarge) {
		t.Errorf("error = %v, want ErrTooLarge", err)
	}
	if !strings.Contains(err.Error(), "exceeds 4 bytes") {
		t.Errorf("error = %v, want size limit message", err)
	}
}

func TestRead_CorruptGzip(t *testing.T) {
	path := writeFile(t, "bad.json.gz", []byte{0x1f, 0x8b, 0x00, 0x01, 0x02})

	_, err := Read(path)
	var carErr *errors.CarError
	if !stderrors.As(err, &carErr) || carErr.Code != errors.IOFailure {
		t.Errorf("Read() error = %v, want IO_FAILURE", err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		head []byte
		want Compression
	}{
		{[]byte("[{"), None},
		{[]byte{0x1f, 0x8b, 0x08, 0x00}, Gzip},
		{[]byte{0x28, 0xb5, 0x2f, 0xfd}, Zstd},
		{nil, None},
	}
	for _, tt := range tests {
		if got := Detect(tt.head); got != tt.want {
			t.Errorf("Detect(%x) = %v, want %v", tt.head, got, tt.want)
		}
	}
}
