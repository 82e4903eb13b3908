package models

import "time"

// AssetQuote is an immutable snapshot of a tradable asset's current state.
// A fresh fetch replaces a cached value; quotes are never mutated in place.
type AssetQuote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Type          string    `json:"type"` // stock, etf, bond, index, crypto
	Price         float64   `json:"price"`
	PrevClose     float64   `json:"prevClose"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	MarketCap     float64   `json:"marketCap,omitempty"`
	Beta          *float64  `json:"beta,omitempty"`
	PE            *float64  `json:"pe,omitempty"`
	DividendYield *float64  `json:"dividendYield,omitempty"`
	High52Week    float64   `json:"high52Week,omitempty"`
	Low52Week     float64   `json:"low52Week,omitempty"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

// Fundamentals carries extended ratios for a symbol. Fields are pointers:
// the provider frequently omits them and absent must stay distinguishable
// from zero.
type Fundamentals struct {
	Symbol          string   `json:"symbol"`
	ForwardPE       *float64 `json:"forwardPE,omitempty"`
	EPS             *float64 `json:"eps,omitempty"`
	PEG             *float64 `json:"peg,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	ProfitMargin    *float64 `json:"profitMargin,omitempty"`
	OperatingMargin *float64 `json:"operatingMargin,omitempty"`
	DebtToEquity    *float64 `json:"debtToEquity,omitempty"`
	RevenueGrowth   *float64 `json:"revenueGrowth,omitempty"`
	EarningsGrowth  *float64 `json:"earningsGrowth,omitempty"`
	Sector          string   `json:"sector,omitempty"`
	Industry        string   `json:"industry,omitempty"`
}

// HistoricalPoint is one trading day of OHLCV data for one symbol.
// Produced only by the market-data gateway; read-only downstream.
type HistoricalPoint struct {
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	AdjClose  float64 `json:"adjClose"`
	Volume    int64   `json:"volume"`
}
