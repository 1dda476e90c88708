package client

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luma/meteo/protocol"
)

type OutcomeKind int

const (
	OutcomeReading OutcomeKind = iota
	OutcomeInvalidRequest
	OutcomeCityUnavailable
	OutcomeUnknownType
	OutcomeUnknownError
)

// Outcome is a response made presentable to a person.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

func (o Outcome) String() string {
	return o.Message
}

// Interpret describes resp, using the city the client asked about since
// responses do not carry it.
func Interpret(resp protocol.Response, city string) Outcome {
	switch resp.Status {
	case protocol.StatusInvalidRequest:
		return Outcome{Kind: OutcomeInvalidRequest, Message: "Richiesta non valida"}

	case protocol.StatusCityUnavailable:
		return Outcome{Kind: OutcomeCityUnavailable, Message: "Città non disponibile"}

	case protocol.StatusSuccess:
		// handled below

	default:
		return Outcome{Kind: OutcomeUnknownError, Message: "Errore sconosciuto"}
	}

	var format string

	switch resp.Type {
	case protocol.Temperature:
		format = "%s: Temperatura = %.1f°C"
	case protocol.Humidity:
		format = "%s: Umidità = %.1f%%"
	case protocol.Wind:
		format = "%s: Vento = %.1f km/h"
	case protocol.Pressure:
		format = "%s: Pressione = %.1f hPa"
	default:
		return Outcome{Kind: OutcomeUnknownType, Message: "Tipo dati sconosciuto"}
	}

	return Outcome{
		Kind:    OutcomeReading,
		Message: fmt.Sprintf(format, capitalize(city), resp.Value),
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}

	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])

	return b.String()
}
