package model

import "time"

// Quote is a live price reading for one instrument.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percent_change"`
	AsOf          time.Time `json:"as_of"`
}

// QuoteBook is the resolved shape of a quote response. The upstream API
// returns a bare record for a single symbol and a symbol-keyed map for a
// batch; the provider adapter folds both into this union so downstream
// code never branches on response shape.
type QuoteBook struct {
	Single *Quote
	Batch  map[string]Quote
}

// Lookup returns the quote for symbol regardless of which shape the
// response arrived in.
func (b *QuoteBook) Lookup(symbol string) (Quote, bool) {
	if b == nil {
		return Quote{}, false
	}
	if b.Single != nil && b.Single.Symbol == symbol {
		return *b.Single, true
	}
	q, ok := b.Batch[symbol]
	return q, ok
}

// Reading is a quote-like value for one correlated proxy (treasury yield,
// dollar index, volatility index, exchange rate) tagged with its source.
type Reading struct {
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Change        float64  `json:"change"`
	PercentChange float64  `json:"percent_change"`
	Previous      *float64 `json:"previous_value,omitempty"`
	Date          string   `json:"date,omitempty"`
	Source        string   `json:"source"`
}

// ReadingFromQuote converts a tradable-instrument quote into a correlation
// reading.
func ReadingFromQuote(name string, q Quote, source string) Reading {
	return Reading{
		Name:          name,
		Price:         q.Price,
		Change:        q.Change,
		PercentChange: q.PercentChange,
		Source:        source,
	}
}
