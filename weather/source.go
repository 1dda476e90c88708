package weather

import (
	"math"
	"math/rand"
	"sync"

	"github.com/luma/meteo/protocol"
)

// Source produces one reading per call for a supported query type. Readings
// must fall inside the Range of their query type.
type Source interface {
	Read(q protocol.QueryType, city string) float32
}

// Range is the half-open interval [Min, Max).
type Range struct {
	Min float32
	Max float32
}

var ranges = map[protocol.QueryType]Range{
	protocol.Temperature: {Min: -10, Max: 40},
	protocol.Humidity:    {Min: 20, Max: 100},
	protocol.Wind:        {Min: 0, Max: 100},
	protocol.Pressure:    {Min: 950, Max: 1050},
}

// RangeFor returns the documented range of readings for q.
func RangeFor(q protocol.QueryType) (Range, bool) {
	r, ok := ranges[q]
	return r, ok
}

func (r Range) Contains(v float32) bool {
	return v >= r.Min && v < r.Max
}

// Clamp forces v into the range. NaN clamps to Min.
func (r Range) Clamp(v float32) float32 {
	switch {
	case math.IsNaN(float64(v)), v < r.Min:
		return r.Min
	case v >= r.Max:
		return math.Nextafter32(r.Max, r.Min)
	}

	return v
}

// RandomSource draws uniformly distributed readings, independent of the city
// and of any earlier call.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSource) Read(q protocol.QueryType, city string) float32 {
	r, ok := RangeFor(q)
	if !ok {
		return 0
	}

	s.mu.Lock()
	f := s.rng.Float64()
	s.mu.Unlock()

	// Rounding to float32 can land exactly on Max.
	return r.Clamp(float32(float64(r.Min) + f*float64(r.Max-r.Min)))
}

var _ Source = (*RandomSource)(nil)
