package progress

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts the progress map to and from its on-disk form.
type Codec interface {
	Name() string
	Encode(map[string]int) ([]byte, error)
	Decode([]byte) (map[string]int, error)
}

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// CodecByName returns the codec for a config value ("json" or "msgpack").
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return Msgpack, nil
	}
	return nil, fmt.Errorf("unknown progress format %q", name)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(m map[string]int) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func (jsonCodec) Decode(data []byte) (map[string]int, error) {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]int)
	}
	return m, nil
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Encode(m map[string]int) ([]byte, error) {
	return msgpack.Marshal(m)
}

func (msgpackCodec) Decode(data []byte) (map[string]int, error) {
	var m map[string]int
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]int)
	}
	return m, nil
}
