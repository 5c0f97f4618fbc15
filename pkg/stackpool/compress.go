package stackpool

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// compressColumn compresses one deinterleaved arena column with LZ4. The
// frame format is self-describing, so incompressible input round-trips
// without out-of-band bookkeeping.
func compressColumn(src []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := lz4.NewWriter(buf)

	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("compress column: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close compressor: %w", err)
	}

	return buf.Bytes(), nil
}

// decompressColumn restores a column previously produced by compressColumn.
func decompressColumn(src []byte) ([]byte, error) {
	data, err := io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
	if err != nil {
		return nil, fmt.Errorf("decompress column: %w", err)
	}

	return data, nil
}
