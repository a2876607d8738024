package control

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName подтип content-type, под которым зарегистрирован JSON кодек
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec кодирует сообщения плоскости управления в JSON вместо protobuf
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}
