package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	// MaxDatagramSize is the buffer capacity shared by clients and servers.
	MaxDatagramSize = 512

	// MaxCityLen is the longest city name, in bytes, a request can carry.
	MaxCityLen = 63
)

var (
	ErrEncoding          = errors.New("Request cannot be encoded")
	ErrTruncatedResponse = errors.New("Response is malformed, it appears to be too short")
)

type Request struct {
	Type QueryType
	City string
}

// EncodeRequest serialises req as type byte, city bytes and a terminating
// zero byte.
//
// Requests that cannot be represented on the wire fail with ErrEncoding and
// must not be sent.
func EncodeRequest(req Request) ([]byte, error) {
	if len(req.City) > MaxCityLen {
		return nil, fmt.Errorf("city is %d bytes, at most %d are allowed: %w",
			len(req.City), MaxCityLen, ErrEncoding)
	}

	if n := 2 + len(req.City); n > MaxDatagramSize {
		return nil, fmt.Errorf("request would be %d bytes, at most %d are allowed: %w",
			n, MaxDatagramSize, ErrEncoding)
	}

	if bytes.IndexByte([]byte(req.City), 0) >= 0 {
		return nil, fmt.Errorf("city %q contains a zero byte: %w", req.City, ErrEncoding)
	}

	b := make([]byte, 0, 2+len(req.City))
	b = append(b, byte(req.Type))
	b = append(b, req.City...)
	b = append(b, 0)

	return b, nil
}

// DecodeRequest extracts whatever request is present in data. It never
// fails: an empty datagram decodes to a zero type and an empty city, a
// missing terminator is tolerated and the city is capped at MaxCityLen bytes.
//
// The query type is not validated here.
func DecodeRequest(data []byte) Request {
	if len(data) == 0 {
		return Request{}
	}

	var city [MaxCityLen]byte

	rest := data[1:]
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		rest = rest[:i]
	}

	n := copy(city[:], rest)

	return Request{
		Type: QueryType(data[0]),
		City: string(city[:n]),
	}
}
