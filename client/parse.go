package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luma/meteo/protocol"
)

var (
	ErrMissingSeparator = errors.New("Request is malformed, it appears to be missing a space between the type and the city")
	ErrInvalidType      = errors.New("Request is malformed, the type must be a single character")
	ErrCityTooLong      = errors.New("City name is too long")
)

// ParseQuery parses a "<type> <city>" request such as "t roma". The type is
// not checked against the supported ones; that is the server's job.
func ParseQuery(s string) (protocol.Request, error) {
	space := strings.IndexByte(s, ' ')
	if space < 0 {
		return protocol.Request{}, fmt.Errorf("Failed to parse '%s': %w", s, ErrMissingSeparator)
	}

	if space != 1 {
		return protocol.Request{}, fmt.Errorf("Failed to parse '%s': %w", s, ErrInvalidType)
	}

	city := strings.TrimLeft(s[space:], " ")
	if len(city) > protocol.MaxCityLen {
		return protocol.Request{}, fmt.Errorf("city is %d bytes, at most %d are allowed: %w",
			len(city), protocol.MaxCityLen, ErrCityTooLong)
	}

	return protocol.Request{
		Type: protocol.QueryType(s[0]),
		City: city,
	}, nil
}
