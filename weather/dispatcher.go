package weather

import "github.com/luma/meteo/protocol"

// Dispatcher turns decoded requests into responses. It holds no mutable
// state of its own and may be called from many goroutines as long as its
// Source allows it.
type Dispatcher struct {
	cities CitySet
	source Source
}

func NewDispatcher(cities CitySet, source Source) *Dispatcher {
	return &Dispatcher{cities: cities, source: source}
}

// Dispatch validates the query type before the city, so an unknown type on
// an unknown city is an InvalidRequest.
func (d *Dispatcher) Dispatch(req protocol.Request) protocol.Response {
	resp := protocol.Response{Type: req.Type}

	switch {
	case !req.Type.Valid():
		resp.Status = protocol.StatusInvalidRequest

	case !d.cities.Contains(req.City):
		resp.Status = protocol.StatusCityUnavailable

	default:
		resp.Status = protocol.StatusSuccess
		resp.Value = d.source.Read(req.Type, req.City)
	}

	return resp
}

func (d *Dispatcher) Cities() CitySet {
	return d.cities
}
