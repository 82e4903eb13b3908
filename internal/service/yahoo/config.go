package yahoo

import "time"

// Config holds provider endpoints and throttling settings.
type Config struct {
	ChartURL       string        `yaml:"chart_url" default:"https://query1.finance.yahoo.com/v8/finance/chart"`
	QuoteURL       string        `yaml:"quote_url" default:"https://query1.finance.yahoo.com/v7/finance/quote"`
	SummaryURL     string        `yaml:"summary_url" default:"https://query1.finance.yahoo.com/v10/finance/quoteSummary"`
	Timeout        time.Duration `yaml:"timeout" default:"10s"`
	RequestsPerSec float64       `yaml:"requests_per_sec" default:"5"`
	Burst          int           `yaml:"burst" default:"10"`
}
