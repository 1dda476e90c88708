package client_test

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/luma/meteo/client"
	"github.com/luma/meteo/protocol"
)

// fakeServer answers every datagram with reply and remembers what it got.
type fakeServer struct {
	conn     net.PacketConn
	reply    []byte
	received chan []byte
}

func startFakeServer(reply []byte) *fakeServer {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	Expect(err).To(Succeed())

	s := &fakeServer{conn: conn, reply: reply, received: make(chan []byte, 8)}

	go func() {
		buf := make([]byte, protocol.MaxDatagramSize)
		for {
			n, addr, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}

			s.received <- append([]byte(nil), buf[:n]...)

			if s.reply != nil {
				conn.WriteTo(s.reply, addr)
			}
		}
	}()

	return s
}

func (s *fakeServer) Close() {
	s.conn.Close()
}

var _ = Describe("Conn", func() {
	connect := func(server *fakeServer, timeout time.Duration) *client.Conn {
		conn := client.New(timeout, zap.NewNop())
		Expect(conn.Connect(context.Background(), server.conn.LocalAddr().String())).To(Succeed())
		return conn
	}

	It("sends the encoded request and decodes the response", func() {
		server := startFakeServer(protocol.EncodeResponse(protocol.Response{
			Status: protocol.StatusSuccess,
			Type:   protocol.Temperature,
			Value:  18.5,
		}))
		defer server.Close()

		conn := connect(server, time.Second)
		defer conn.Disconnect()

		resp, err := conn.Query(context.Background(), protocol.Request{Type: protocol.Temperature, City: "roma"})
		Expect(err).To(Succeed())
		Expect(resp).To(Equal(protocol.Response{Status: protocol.StatusSuccess, Type: protocol.Temperature, Value: 18.5}))

		Eventually(server.received).Should(Receive(Equal([]byte("troma\x00"))))
	})

	It("reports truncated responses", func() {
		server := startFakeServer([]byte{0, 0, 0, 0, 't'})
		defer server.Close()

		conn := connect(server, time.Second)
		defer conn.Disconnect()

		_, err := conn.Query(context.Background(), protocol.Request{Type: protocol.Temperature, City: "roma"})
		Expect(errors.Is(err, protocol.ErrTruncatedResponse)).To(BeTrue())
	})

	It("does not send requests that cannot be encoded", func() {
		server := startFakeServer(nil)
		defer server.Close()

		conn := connect(server, time.Second)
		defer conn.Disconnect()

		_, err := conn.Query(context.Background(), protocol.Request{Type: protocol.Temperature, City: strings.Repeat("a", 64)})
		Expect(errors.Is(err, protocol.ErrEncoding)).To(BeTrue())
		Consistently(server.received, 100*time.Millisecond).ShouldNot(Receive())
	})

	It("times out when the server never answers", func() {
		server := startFakeServer(nil)
		defer server.Close()

		conn := connect(server, 100*time.Millisecond)
		defer conn.Disconnect()

		_, err := conn.Query(context.Background(), protocol.Request{Type: protocol.Wind, City: "bari"})
		Expect(err).To(HaveOccurred())

		var netErr net.Error
		Expect(errors.As(err, &netErr)).To(BeTrue())
		Expect(netErr.Timeout()).To(BeTrue())
	})

	It("stops waiting when the context is cancelled", func() {
		server := startFakeServer(nil)
		defer server.Close()

		conn := connect(server, 0)
		defer conn.Disconnect()

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(50*time.Millisecond, cancel)

		_, err := conn.Query(ctx, protocol.Request{Type: protocol.Wind, City: "bari"})
		Expect(err).To(MatchError(context.Canceled))
	})
})
