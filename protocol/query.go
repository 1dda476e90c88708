package protocol

// QueryType selects which reading a client asks for.
type QueryType byte

const (
	Temperature QueryType = 't'
	Humidity    QueryType = 'h'
	Wind        QueryType = 'w'
	Pressure    QueryType = 'p'
)

// QueryTypes lists every supported query type.
var QueryTypes = []QueryType{Temperature, Humidity, Wind, Pressure}

// Valid reports whether q is one of the supported query types.
func (q QueryType) Valid() bool {
	switch q {
	case Temperature, Humidity, Wind, Pressure:
		return true
	}

	return false
}

func (q QueryType) String() string {
	switch q {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Wind:
		return "wind"
	case Pressure:
		return "pressure"
	}

	return string(rune(q))
}

type Status uint32

const (
	StatusSuccess         Status = 0
	StatusCityUnavailable Status = 1
	StatusInvalidRequest  Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusCityUnavailable:
		return "city unavailable"
	case StatusInvalidRequest:
		return "invalid request"
	}

	return "unknown"
}
