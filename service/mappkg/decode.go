package mappkg

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"realm/api/log"
)

var (
	ErrUnsupportedEncoding = errors.New("unsupported layer encoding")
	ErrDecompressionFailed = errors.New("layer decompression failed")
)

// DecodeLayer base64 → (zlib|gzip) → little-endian uint32，长度必须等于 width*height
func DecodeLayer(layer *TiledLayer) ([]uint32, error) {
	want := layer.Width * layer.Height

	switch layer.Encoding {
	case EncodingBase64:
	case "", EncodingCSV:
		// 未编码的数组形式
		if layer.Data.Encoded != "" || layer.Data.Tiles == nil {
			return nil, fmt.Errorf("%w: %q without array data", ErrUnsupportedEncoding, layer.Encoding)
		}
		if len(layer.Data.Tiles) != want {
			return nil, fmt.Errorf("%w: got %d tiles, want %d", ErrDecompressionFailed, len(layer.Data.Tiles), want)
		}
		out := make([]uint32, want)
		copy(out, layer.Data.Tiles)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, layer.Encoding)
	}

	limit := int64(want) * 4
	if limit < 0 {
		limit = 0
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(layer.Data.Encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrDecompressionFailed, err)
	}

	switch layer.Compression {
	case CompressionNone:
	case CompressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", ErrDecompressionFailed, err)
		}
		raw, err = readAllClose(zr, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %v", ErrDecompressionFailed, err)
		}
	case CompressionGzip:
		gr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrDecompressionFailed, err)
		}
		raw, err = readAllClose(gr, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrDecompressionFailed, err)
		}
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupportedEncoding, layer.Compression)
	}

	if len(raw) != want*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrDecompressionFailed, len(raw), want*4)
	}
	out := make([]uint32, want)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out, nil
}

// LayerTiles 解码失败时退化为全 0 图层，单层损坏不影响整图
func LayerTiles(layer *TiledLayer) []uint32 {
	tiles, err := DecodeLayer(layer)
	if err != nil {
		log.Warnf("decode layer id=%d name=%q failed, using empty grid: %v", layer.ID, layer.Name, err)
		n := layer.Width * layer.Height
		if n < 0 {
			n = 0
		}
		return make([]uint32, n)
	}
	return tiles
}

// readAllClose 最多读 limit+1 字节，超出即判为损坏，不把整段解压到内存
func readAllClose(rc io.ReadCloser, limit int64) ([]byte, error) {
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("inflated stream exceeds %d bytes", limit)
	}
	return b, nil
}
