package yahoo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"StockSquad/internal/domain/models"
	"StockSquad/internal/domain/repository"
	httppkg "StockSquad/pkg/http"
	"StockSquad/pkg/logger"
	"StockSquad/pkg/util"
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,10}$`)

// ValidSymbol reports whether s is an acceptable ticker symbol.
func ValidSymbol(s string) bool {
	return symbolPattern.MatchString(s)
}

// Client fetches market data from the Yahoo-style finance API.
// Outbound calls share one token-bucket limiter so concurrent fan-outs
// stay under the provider's throttle.
type Client struct {
	cfg     *Config
	http    *httppkg.Client
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewClient creates a provider client.
func NewClient(l *logger.Logger, cfg *Config) *Client {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		cfg:     cfg,
		http:    httppkg.NewClient(httppkg.WithTimeout(cfg.Timeout)),
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  l,
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	QuoteType                  string   `json:"quoteType"`
	RegularMarketPrice         float64  `json:"regularMarketPrice"`
	RegularMarketPreviousClose float64  `json:"regularMarketPreviousClose"`
	MarketCap                  float64  `json:"marketCap"`
	Beta                       *float64 `json:"beta"`
	TrailingPE                 *float64 `json:"trailingPE"`
	DividendYield              *float64 `json:"trailingAnnualDividendYield"`
	FiftyTwoWeekHigh           float64  `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            float64  `json:"fiftyTwoWeekLow"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData *struct {
				ReturnOnEquity   rawValue `json:"returnOnEquity"`
				ReturnOnAssets   rawValue `json:"returnOnAssets"`
				ProfitMargins    rawValue `json:"profitMargins"`
				OperatingMargins rawValue `json:"operatingMargins"`
				DebtToEquity     rawValue `json:"debtToEquity"`
				RevenueGrowth    rawValue `json:"revenueGrowth"`
				EarningsGrowth   rawValue `json:"earningsGrowth"`
			} `json:"financialData"`
			KeyStatistics *struct {
				ForwardPE   rawValue `json:"forwardPE"`
				TrailingEPS rawValue `json:"trailingEps"`
				PEGRatio    rawValue `json:"pegRatio"`
			} `json:"defaultKeyStatistics"`
			Profile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GetQuote fetches the current quote for a symbol. The quote endpoint is
// tried first; on provider failure the chart meta block serves as a
// degraded fallback carrying price and previous close only.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.AssetQuote, error) {
	if !ValidSymbol(symbol) {
		return nil, repository.ErrInvalidSymbol
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp quoteResponse
	err := c.http.SendAndParse(ctx, &httppkg.RequestOptions{
		URL:         c.cfg.QuoteURL,
		Headers:     defaultHeaders(),
		QueryParams: map[string]string{"symbols": symbol},
	}, &resp)
	if err != nil {
		c.logger.Warn("quote endpoint failed, falling back to chart",
			logger.String("symbol", symbol), logger.Error(err))
		return c.quoteFromChart(ctx, symbol)
	}
	if resp.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrProvider, resp.QuoteResponse.Error.Description)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, repository.ErrSymbolNotFound
	}

	r := resp.QuoteResponse.Result[0]
	name := r.LongName
	if name == "" {
		name = r.ShortName
	}
	q := &models.AssetQuote{
		Symbol:        r.Symbol,
		Name:          name,
		Type:          normalizeQuoteType(r.QuoteType),
		Price:         r.RegularMarketPrice,
		PrevClose:     r.RegularMarketPreviousClose,
		MarketCap:     r.MarketCap,
		Beta:          r.Beta,
		PE:            r.TrailingPE,
		DividendYield: r.DividendYield,
		High52Week:    r.FiftyTwoWeekHigh,
		Low52Week:     r.FiftyTwoWeekLow,
		FetchedAt:     time.Now().UTC(),
	}
	q.Change = q.Price - q.PrevClose
	if q.PrevClose != 0 {
		q.ChangePercent = q.Change / q.PrevClose * 100
	}
	return q, nil
}

func (c *Client) quoteFromChart(ctx context.Context, symbol string) (*models.AssetQuote, error) {
	var resp chartResponse
	err := c.http.SendAndParse(ctx, &httppkg.RequestOptions{
		URL:         c.cfg.ChartURL + "/" + symbol,
		Headers:     defaultHeaders(),
		QueryParams: map[string]string{"range": "1d", "interval": "1d"},
	}, &resp)
	if err != nil {
		return nil, mapTransportError(err)
	}
	if resp.Chart.Error != nil || len(resp.Chart.Result) == 0 {
		return nil, repository.ErrSymbolNotFound
	}

	meta := resp.Chart.Result[0].Meta
	q := &models.AssetQuote{
		Symbol:    meta.Symbol,
		Price:     meta.RegularMarketPrice,
		PrevClose: meta.ChartPreviousClose,
		FetchedAt: time.Now().UTC(),
	}
	q.Change = q.Price - q.PrevClose
	if q.PrevClose != 0 {
		q.ChangePercent = q.Change / q.PrevClose * 100
	}
	return q, nil
}

// GetHistorical fetches daily OHLCV bars for the window. Rows with a
// missing or non-positive close are dropped rather than surfaced.
func (c *Client) GetHistorical(ctx context.Context, symbol string, r repository.TimeRange) ([]models.HistoricalPoint, error) {
	if !ValidSymbol(symbol) {
		return nil, repository.ErrInvalidSymbol
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &httppkg.RequestOptions{
		URL:     c.cfg.ChartURL + "/" + symbol,
		Headers: defaultHeaders(),
		QueryParams: map[string]string{
			"period1":  strconv.FormatInt(r.Start.Unix(), 10),
			"period2":  strconv.FormatInt(r.End.Unix(), 10),
			"interval": "1d",
			"events":   "div,splits",
		},
	}, &resp)
	if err != nil {
		return nil, mapTransportError(err)
	}
	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return nil, repository.ErrSymbolNotFound
		}
		return nil, fmt.Errorf("%w: %s", repository.ErrProvider, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, repository.ErrSymbolNotFound
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, repository.ErrSymbolNotFound
	}
	bars := result.Indicators.Quote[0]

	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	points := make([]models.HistoricalPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(bars.Close) || bars.Close[i] == nil || *bars.Close[i] <= 0 {
			continue
		}
		p := models.HistoricalPoint{
			Timestamp: ts,
			Date:      time.Unix(ts, 0).UTC().Format(util.DateLayout),
			Close:     *bars.Close[i],
			AdjClose:  *bars.Close[i],
		}
		if i < len(bars.Open) && bars.Open[i] != nil {
			p.Open = *bars.Open[i]
		}
		if i < len(bars.High) && bars.High[i] != nil {
			p.High = *bars.High[i]
		}
		if i < len(bars.Low) && bars.Low[i] != nil {
			p.Low = *bars.Low[i]
		}
		if i < len(bars.Volume) && bars.Volume[i] != nil {
			p.Volume = *bars.Volume[i]
		}
		if i < len(adj) && adj[i] != nil && *adj[i] > 0 {
			p.AdjClose = *adj[i]
		}
		points = append(points, p)
	}

	return points, nil
}

// GetFundamentals fetches extended ratios from the quoteSummary endpoint.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	if !ValidSymbol(symbol) {
		return nil, repository.ErrInvalidSymbol
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp summaryResponse
	err := c.http.SendAndParse(ctx, &httppkg.RequestOptions{
		URL:     c.cfg.SummaryURL + "/" + symbol,
		Headers: defaultHeaders(),
		QueryParams: map[string]string{
			"modules": "financialData,defaultKeyStatistics,summaryProfile",
		},
	}, &resp)
	if err != nil {
		return nil, mapTransportError(err)
	}
	if resp.QuoteSummary.Error != nil || len(resp.QuoteSummary.Result) == 0 {
		return nil, repository.ErrSymbolNotFound
	}

	r := resp.QuoteSummary.Result[0]
	f := &models.Fundamentals{Symbol: symbol}
	if fd := r.FinancialData; fd != nil {
		f.ROE = fd.ReturnOnEquity.Raw
		f.ROA = fd.ReturnOnAssets.Raw
		f.ProfitMargin = fd.ProfitMargins.Raw
		f.OperatingMargin = fd.OperatingMargins.Raw
		f.DebtToEquity = fd.DebtToEquity.Raw
		f.RevenueGrowth = fd.RevenueGrowth.Raw
		f.EarningsGrowth = fd.EarningsGrowth.Raw
	}
	if ks := r.KeyStatistics; ks != nil {
		f.ForwardPE = ks.ForwardPE.Raw
		f.EPS = ks.TrailingEPS.Raw
		f.PEG = ks.PEGRatio.Raw
	}
	if p := r.Profile; p != nil {
		f.Sector = p.Sector
		f.Industry = p.Industry
	}
	return f, nil
}

func mapTransportError(err error) error {
	var se *httppkg.StatusError
	if errors.As(err, &se) {
		if se.StatusCode == 404 {
			return repository.ErrSymbolNotFound
		}
		return fmt.Errorf("%w: status %d", repository.ErrProvider, se.StatusCode)
	}
	return fmt.Errorf("%w: %v", repository.ErrProvider, err)
}

func normalizeQuoteType(t string) string {
	switch t {
	case "EQUITY":
		return "stock"
	case "ETF":
		return "etf"
	case "INDEX":
		return "index"
	case "CRYPTOCURRENCY":
		return "crypto"
	case "BOND":
		return "bond"
	default:
		return "stock"
	}
}

func defaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
		"Accept":     "application/json",
	}
}
