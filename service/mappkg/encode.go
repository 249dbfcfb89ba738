package mappkg

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
)

// EncodeLayer DecodeLayer 的逆过程，产出与 Tiled 导出一致的 data 字符串
func EncodeLayer(tiles []uint32, compression string) (string, error) {
	raw := make([]byte, len(tiles)*4)
	for i, t := range tiles {
		binary.LittleEndian.PutUint32(raw[i*4:], t)
	}

	var buf bytes.Buffer
	var w io.WriteCloser
	switch compression {
	case CompressionNone:
		return base64.StdEncoding.EncodeToString(raw), nil
	case CompressionZlib:
		w = zlib.NewWriter(&buf)
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	default:
		return "", fmt.Errorf("%w: compression %q", ErrUnsupportedEncoding, compression)
	}
	if _, err := w.Write(raw); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// PackLayer 把数组形式的图层改写为 base64 + compression
func PackLayer(layer *TiledLayer, compression string) error {
	if layer.Type != LayerTypeTile || layer.Encoding == EncodingBase64 {
		return nil
	}
	tiles, err := DecodeLayer(layer)
	if err != nil {
		return err
	}
	data, err := EncodeLayer(tiles, compression)
	if err != nil {
		return err
	}
	layer.Data = LayerData{Encoded: data}
	layer.Encoding = EncodingBase64
	layer.Compression = compression
	return nil
}
