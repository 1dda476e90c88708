package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ResponseSize is the fixed length of every encoded response.
const ResponseSize = 9

type Response struct {
	Status Status
	Type   QueryType
	Value  float32
}

// Success reports whether Type and Value carry a reading.
func (r Response) Success() bool {
	return r.Status == StatusSuccess
}

func EncodeResponse(resp Response) []byte {
	b := make([]byte, ResponseSize)

	binary.BigEndian.PutUint32(b[0:4], uint32(resp.Status))
	b[4] = byte(resp.Type)
	binary.BigEndian.PutUint32(b[5:9], math.Float32bits(resp.Value))

	return b
}

// DecodeResponse parses the first ResponseSize bytes of data. Trailing bytes
// are ignored.
func DecodeResponse(data []byte) (Response, error) {
	if len(data) < ResponseSize {
		return Response{}, fmt.Errorf("got %d bytes, want %d: %w",
			len(data), ResponseSize, ErrTruncatedResponse)
	}

	return Response{
		Status: Status(binary.BigEndian.Uint32(data[0:4])),
		Type:   QueryType(data[4]),
		Value:  math.Float32frombits(binary.BigEndian.Uint32(data[5:9])),
	}, nil
}
