// Package protocol implements encoding and decoding of the datagrams that
// Meteo clients and servers exchange over UDP.
//
// This protocol aims to be
//
// - trivial to implement in any language
// - a single datagram per request and per response
// - fixed layout, no framing or length prefixes
//
// - `Request`  - A client asking for one kind of reading for one city.
// - `Response` - The server's answer: a status, the echoed query type and a value.
//
// === Byte order
//
// All multi-byte fields are big-endian (network byte order).
//
// === Request
//
//   offset 0       : 1 byte  - query type ('t'|'h'|'w'|'p')
//   offset 1..N    : N bytes - city name
//   offset N+1     : 1 byte  - 0x00 terminator
//
// City names are at most 63 bytes. Receivers must not rely on the
// terminator being present: the city is read up to the first 0x00, the end
// of the datagram, or 63 bytes, whichever comes first.
//
// === Response
//
//   offset 0..3    : 4 bytes - status (0=Success, 1=CityUnavailable, 2=InvalidRequest)
//   offset 4       : 1 byte  - query type (echoed from the request)
//   offset 5..8    : 4 bytes - value, IEEE-754 float32 bit pattern
//
// The value travels as the raw bits of the float32, so NaN payloads and
// negative zero survive the round trip. The type and value are only
// meaningful when the status is Success.
//
// === Errors
//
// Unknown query types and unsupported cities are not transport errors.
// They are ordinary responses carrying InvalidRequest or CityUnavailable.
//
// Datagrams are at most 512 bytes in either direction.
package protocol
