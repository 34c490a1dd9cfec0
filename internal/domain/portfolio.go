package domain

import (
	"github.com/shopspring/decimal"
)

// Portfolio is a snapshot handed to us by the persistence layer. Ownership
// checks happen there, not here
type Portfolio struct {
	ID      string       `json:"id"`
	OwnerID string       `json:"ownerId"`
	Name    string       `json:"name"`
	Stocks  []StockEntry `json:"stocks"`
}

// StockEntry tickers are not unique within a portfolio
type StockEntry struct {
	Ticker string          `json:"ticker"`
	Price  decimal.Decimal `json:"price"`
}

func (p Portfolio) Tickers() []string {
	out := make([]string, 0, len(p.Stocks))
	for _, s := range p.Stocks {
		out = append(out, s.Ticker)
	}
	return out
}

func (p Portfolio) DeepCopy() *Portfolio {
	stocks := make([]StockEntry, len(p.Stocks))
	copy(stocks, p.Stocks)
	return &Portfolio{
		ID:      p.ID,
		OwnerID: p.OwnerID,
		Name:    p.Name,
		Stocks:  stocks,
	}
}
