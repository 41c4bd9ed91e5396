package services

import (
	"github.com/shopspring/decimal"

	"github.com/deskflow-io/deskflow/modules/ingestion/domain/ticket"
)

// DeriveMetrics populates the integer-seconds and decimal-minutes
// companions of the two tracked intervals from their raw duration strings.
// An unparseable or absent raw duration leaves its companions nil; that is
// not an error condition. Nothing outside t is touched.
func DeriveMetrics(t *ticket.Ticket, parser *TemporalParser) {
	t.ResponseTimeSeconds, t.ResponseTimeMinutes = deriveDuration(t.ResponseTime, parser)
	t.ResolvedTimeSeconds, t.ResolvedTimeMinutes = deriveDuration(t.ResolvedTime, parser)
}

func deriveDuration(raw string, parser *TemporalParser) (*int, *decimal.Decimal) {
	v := Normalize(raw)
	seconds, ok := parser.ParseDurationSeconds(v)
	if !ok {
		return nil, nil
	}
	minutes, _ := parser.ParseDurationMinutes(v)
	return &seconds, &minutes
}
