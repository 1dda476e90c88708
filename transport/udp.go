package transport

import (
	"context"
	"errors"
	"net"
	"runtime"
	"strconv"
	"sync"

	reuseport "github.com/kavu/go_reuseport"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/meteo/internal/netutil"
	"github.com/luma/meteo/protocol"
)

type UDP struct {
	cancel     context.CancelFunc
	stopWaiter sync.WaitGroup

	addr string

	reuseport    bool
	numListeners int
	listeners    []*UDPListener

	dispatcher   Dispatcher
	resolveHosts bool

	log *zap.Logger
}

func NewUDP(options Options) *UDP {
	numListeners := options.NumListeners

	if numListeners < 1 {
		numListeners = runtime.NumCPU()
	}

	// Without SO_REUSEPORT only one socket can bind the port, and with an
	// ephemeral port every listener would get a different one.
	if !options.Reuseport || options.Port == 0 {
		numListeners = 1
	}

	return &UDP{
		addr:         net.JoinHostPort(options.Host, strconv.Itoa(options.Port)),
		reuseport:    options.Reuseport,
		numListeners: numListeners,
		listeners:    make([]*UDPListener, 0, numListeners),
		dispatcher:   options.Dispatcher,
		resolveHosts: options.ResolveHosts,
		log:          options.Log,
	}
}

// Start binds every listener before returning, so bind failures are
// reported here and the server is ready to receive once it returns nil.
func (u *UDP) Start(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	u.cancel = cancel

	u.log.Info("Starting udp listeners", zap.Int("count", u.numListeners))

	for i := 0; i < u.numListeners; i++ {
		conn, err := u.listenPacket()
		if err != nil {
			cancel()
			return multierr.Append(err, u.closeListeners())
		}

		u.listeners = append(u.listeners, NewUDPListener(
			conn,
			u.dispatcher,
			u.resolveHosts,
			u.log.Named("listener").With(zap.Int("listener", i)),
		))
	}

	for _, listener := range u.listeners {
		u.startListener(ctx, listener)
	}

	return nil
}

// Addr is the address the first listener is bound to.
func (u *UDP) Addr() net.Addr {
	if len(u.listeners) == 0 {
		return nil
	}

	return u.listeners[0].conn.LocalAddr()
}

func (u *UDP) listenPacket() (net.PacketConn, error) {
	if u.reuseport {
		return reuseport.ListenPacket("udp", u.addr)
	}

	return net.ListenPacket("udp", u.addr)
}

func (u *UDP) startListener(ctx context.Context, listener *UDPListener) {
	u.stopWaiter.Add(1)

	go func() {
		defer u.stopWaiter.Done()

		if err := listener.Listen(ctx); err != nil {
			u.log.Error("Listener stopped", zap.Error(err))
		}
	}()
}

// Close stops every listener and waits for in-flight datagrams to be
// answered.
func (u *UDP) Close() error {
	u.log.Info("Stopping UDP server")

	if u.cancel != nil {
		u.cancel()
	}

	err := u.closeListeners()

	u.stopWaiter.Wait()
	u.log.Info("Listeners stopped")

	return err
}

func (u *UDP) closeListeners() (err error) {
	for _, listener := range u.listeners {
		err = multierr.Append(err, listener.Close())
	}

	return err
}

type UDPListener struct {
	conn net.PacketConn

	dispatcher   Dispatcher
	resolveHosts bool

	// handlers tracks the goroutines answering datagrams
	handlers sync.WaitGroup

	closeOnce sync.Once
	closeErr  error

	log *zap.Logger
}

func NewUDPListener(
	conn net.PacketConn,
	dispatcher Dispatcher,
	resolveHosts bool,
	log *zap.Logger,
) *UDPListener {
	return &UDPListener{
		conn:         conn,
		dispatcher:   dispatcher,
		resolveHosts: resolveHosts,
		log:          log,
	}
}

func (l *UDPListener) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.conn.Close()
	})

	return l.closeErr
}

// Listen receives datagrams until the connection is closed, answering each
// one on its own goroutine. Receive errors are logged and do not stop the
// loop.
func (l *UDPListener) Listen(ctx context.Context) error {
	defer l.handlers.Wait()

	buf := make([]byte, protocol.MaxDatagramSize)

	for {
		n, addr, err := l.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				l.log.Info("Listener closed")
				return nil
			}

			l.log.Warn("Failed to receive datagram", zap.Error(err))
			continue
		}

		if n == 0 {
			l.log.Debug("Ignoring empty datagram", zap.Stringer("from", addr))
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		l.handlers.Add(1)
		go func() {
			defer l.handlers.Done()
			l.handle(ctx, data, addr)
		}()
	}
}

func (l *UDPListener) handle(ctx context.Context, data []byte, addr net.Addr) {
	req := protocol.DecodeRequest(data)
	resp := l.dispatcher.Dispatch(req)

	if _, err := l.conn.WriteTo(protocol.EncodeResponse(resp), addr); err != nil {
		l.log.Warn("Failed to send response",
			zap.Stringer("to", addr),
			zap.Error(err))
		return
	}

	name := addr.String()
	ip := name
	if l.resolveHosts {
		name, ip = netutil.HostName(ctx, addr)
	}

	l.log.Info("Request received",
		zap.String("host", name),
		zap.String("ip", ip),
		zap.String("type", string(rune(req.Type))),
		zap.String("city", req.City),
		zap.Stringer("status", resp.Status))
}
