package weather_test

import (
	"math"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/luma/meteo/protocol"
	"github.com/luma/meteo/weather"
)

var _ = Describe("Range", func() {
	r := weather.Range{Min: 950, Max: 1050}

	It("includes Min and excludes Max", func() {
		Expect(r.Contains(950)).To(BeTrue())
		Expect(r.Contains(1050)).To(BeFalse())
	})

	It("clamps values into the range", func() {
		Expect(r.Clamp(900)).To(Equal(float32(950)))
		Expect(r.Clamp(1000)).To(Equal(float32(1000)))
		Expect(r.Contains(r.Clamp(1050))).To(BeTrue())
		Expect(r.Contains(r.Clamp(2000))).To(BeTrue())
		Expect(r.Clamp(float32(math.NaN()))).To(Equal(float32(950)))
	})

	It("has no range for unknown query types", func() {
		_, ok := weather.RangeFor(protocol.QueryType('x'))
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("RandomSource", func() {
	table.DescribeTable("stays inside the documented range",
		func(q protocol.QueryType, min, max float32) {
			source := weather.NewRandomSource(42)

			r, ok := weather.RangeFor(q)
			Expect(ok).To(BeTrue())
			Expect(r).To(Equal(weather.Range{Min: min, Max: max}))

			for i := 0; i < 10000; i++ {
				v := source.Read(q, "Roma")
				Expect(v).To(BeNumerically(">=", min))
				Expect(v).To(BeNumerically("<", max))
			}
		},
		table.Entry("temperature", protocol.Temperature, float32(-10), float32(40)),
		table.Entry("humidity", protocol.Humidity, float32(20), float32(100)),
		table.Entry("wind", protocol.Wind, float32(0), float32(100)),
		table.Entry("pressure", protocol.Pressure, float32(950), float32(1050)),
	)

	It("is deterministic for a given seed", func() {
		a := weather.NewRandomSource(7)
		b := weather.NewRandomSource(7)

		for i := 0; i < 100; i++ {
			Expect(a.Read(protocol.Wind, "Bari")).To(Equal(b.Read(protocol.Wind, "Bari")))
		}
	})

	It("answers zero for unknown query types", func() {
		Expect(weather.NewRandomSource(1).Read(protocol.QueryType('x'), "Bari")).To(BeZero())
	})
})
