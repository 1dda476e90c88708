package transport

import (
	"go.uber.org/zap"

	"github.com/luma/meteo/protocol"
)

// Dispatcher answers decoded requests. It is called concurrently, once per
// datagram.
type Dispatcher interface {
	Dispatch(req protocol.Request) protocol.Response
}

type Options struct {
	// Host to listen on
	Host string

	// Port to listen on
	Port int

	// Reuseport controls setting SO_REUSEPORT so several listeners can share
	// the port
	Reuseport bool

	// NumListeners defaults to the number of CPUs when Reuseport is set and
	// to 1 otherwise
	NumListeners int

	// ResolveHosts enables reverse lookups of senders for logging
	ResolveHosts bool

	Dispatcher Dispatcher

	Log *zap.Logger
}
