package netutil_test

import (
	"context"
	"net"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/meteo/internal/netutil"
)

type opaqueAddr string

func (a opaqueAddr) Network() string { return "test" }
func (a opaqueAddr) String() string  { return string(a) }

var _ = Describe("HostName()", func() {
	It("returns the IP of a UDP address", func() {
		_, ip := netutil.HostName(context.Background(), &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 56700})
		Expect(ip).To(Equal("127.0.0.1"))
	})

	It("falls back to the IP when the lookup fails", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		name, ip := netutil.HostName(ctx, opaqueAddr("192.0.2.1:9"))
		Expect(ip).To(Equal("192.0.2.1"))
		Expect(name).To(Equal(ip))
	})
})
