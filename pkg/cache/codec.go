package cache

import (
	"encoding/json"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func initCodec() {
	codecOnce.Do(func() {
		encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if codecErr != nil {
			return
		}
		decoder, codecErr = zstd.NewReader(nil)
	})
}

// Encode marshals v to JSON and compresses it with zstd.
func Encode(v interface{}) ([]byte, error) {
	initCodec()
	if codecErr != nil {
		return nil, codecErr
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode reverses Encode into dest.
func Decode(data []byte, dest interface{}) error {
	initCodec()
	if codecErr != nil {
		return codecErr
	}
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
