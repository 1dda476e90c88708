package weather

import (
	"context"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/luma/meteo/feed"
	"github.com/luma/meteo/protocol"
	"github.com/luma/meteo/storage"
)

// reading is what LiveSource keeps per city and query type. Only the latest
// reading is kept.
type reading struct {
	Value float64   `json:"value"`
	At    time.Time `json:"at"`
}

type LiveOptions struct {
	Store storage.Store

	// Cities limits which stations are recorded. An empty set records all.
	Cities CitySet

	// Fallback answers when no fresh station reading is available
	Fallback Source

	// MaxAge is how long a station reading stays usable. Zero means forever.
	MaxAge time.Duration

	// Now defaults to time.Now
	Now func() time.Time

	Log *zap.Logger
}

// LiveSource answers with the latest reading reported by a city's weather
// station, falling back to another Source when there is none.
type LiveSource struct {
	store    storage.Store
	cities   CitySet
	fallback Source
	maxAge   time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewLiveSource(options LiveOptions) *LiveSource {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	return &LiveSource{
		store:    options.Store,
		cities:   options.Cities,
		fallback: options.Fallback,
		maxAge:   options.MaxAge,
		now:      now,
		log:      options.Log,
	}
}

// Record stores every reading present in t under the station's city.
func (l *LiveSource) Record(t feed.Telemetry) error {
	if l.cities.Len() > 0 && !l.cities.Contains(t.StationID) {
		l.log.Debug("Ignoring telemetry from unknown station", zap.String("station", t.StationID))
		return nil
	}

	ctx := context.Background()

	values := map[protocol.QueryType]*float64{
		protocol.Temperature: t.Temperature,
		protocol.Humidity:    t.Humidity,
		protocol.Wind:        t.Wind,
		protocol.Pressure:    t.Pressure,
	}

	for q, v := range values {
		if v == nil {
			continue
		}

		if err := l.store.Set(ctx, readingKey(t.StationID, q), reading{Value: *v, At: t.Timestamp}); err != nil {
			return err
		}
	}

	return nil
}

func (l *LiveSource) Read(q protocol.QueryType, city string) float32 {
	if v, ok := l.lookup(q, city); ok {
		return v
	}

	return l.fallback.Read(q, city)
}

func (l *LiveSource) lookup(q protocol.QueryType, city string) (float32, bool) {
	r, ok := RangeFor(q)
	if !ok {
		return 0, false
	}

	raw, err := l.store.Get(context.Background(), readingKey(city, q))
	if err != nil {
		return 0, false
	}

	at := gjson.GetBytes(raw, "at").Time()
	if l.maxAge > 0 && l.now().Sub(at) > l.maxAge {
		return 0, false
	}

	v := float32(gjson.GetBytes(raw, "value").Float())
	if !r.Contains(v) {
		l.log.Debug("Clamping station reading",
			zap.String("city", city),
			zap.Stringer("type", q),
			zap.Float32("value", v))
		v = r.Clamp(v)
	}

	return v, true
}

// readingKey builds the store path city.type, escaping the characters
// gjson/sjson treat as path syntax.
func readingKey(city string, q protocol.QueryType) []byte {
	var b strings.Builder

	for _, c := range normalize(city) {
		switch c {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}

	b.WriteByte('.')
	b.WriteByte(byte(q))

	return []byte(b.String())
}

var _ Source = (*LiveSource)(nil)
