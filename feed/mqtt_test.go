package feed_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/luma/meteo/feed"
)

var _ = Describe("Subscriber", func() {
	var (
		received []feed.Telemetry
		sub      *feed.Subscriber
	)

	BeforeEach(func() {
		received = nil
		sub = feed.NewSubscriber(feed.Options{
			Broker:   "127.0.0.1",
			Port:     1,
			ClientID: "meteo-test",
			Topic:    "stations/+/telemetry",
			Handler: func(t feed.Telemetry) error {
				received = append(received, t)
				return nil
			},
			Log: zap.NewNop(),
		})
	})

	AfterEach(func() {
		sub.Disconnect()
	})

	Describe("HandlePayload()", func() {
		It("passes valid telemetry to the handler", func() {
			sub.HandlePayload("stations/bari/telemetry",
				[]byte(`{"station_id":"bari","timestamp":"2026-10-17T10:00:00Z","wind_kph":30}`))

			Expect(received).To(HaveLen(1))
			Expect(received[0].StationID).To(Equal("bari"))
		})

		It("drops invalid telemetry", func() {
			sub.HandlePayload("stations/bari/telemetry", []byte(`not json`))
			Expect(received).To(BeEmpty())
		})
	})

	Describe("Connect()", func() {
		It("gives up when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
			defer cancel()

			Expect(sub.Connect(ctx)).NotTo(Succeed())
			Expect(sub.IsConnected()).To(BeFalse())
		})

		It("refuses to connect after Disconnect", func() {
			sub.Disconnect()

			err := sub.Connect(context.Background())
			Expect(errors.Is(err, feed.ErrStopped)).To(BeTrue())
		})
	})
})
