package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSquad/internal/domain/repository"
	"StockSquad/pkg/logger"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	l, err := logger.New(&logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return NewClient(l, &Config{
		ChartURL:       srv.URL + "/chart",
		QuoteURL:       srv.URL + "/quote",
		SummaryURL:     srv.URL + "/summary",
		Timeout:        5 * time.Second,
		RequestsPerSec: 100,
		Burst:          100,
	})
}

func TestValidSymbol(t *testing.T) {
	assert.True(t, ValidSymbol("AAPL"))
	assert.True(t, ValidSymbol("BRK.B"))
	assert.True(t, ValidSymbol("BTC-USD"))
	assert.False(t, ValidSymbol(""))
	assert.False(t, ValidSymbol("TOOLONGSYMBOL"))
	assert.False(t, ValidSymbol("AA PL"))
	assert.False(t, ValidSymbol("a;rm"))
}

func TestGetQuoteParsesResponse(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "AAPL", r.URL.Query().Get("symbols"))
		w.Write([]byte(`{"quoteResponse":{"result":[{
			"symbol":"AAPL","longName":"Apple Inc.","quoteType":"EQUITY",
			"regularMarketPrice":200,"regularMarketPreviousClose":190,
			"marketCap":3000000000000,"beta":1.2,"trailingPE":30.5,
			"fiftyTwoWeekHigh":220,"fiftyTwoWeekLow":150
		}],"error":null}}`))
	}))

	q, err := c.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.Equal(t, "stock", q.Type)
	assert.InDelta(t, 10.0, q.Change, 1e-9)
	assert.InDelta(t, 5.263, q.ChangePercent, 0.001)
	require.NotNil(t, q.Beta)
	assert.InDelta(t, 1.2, *q.Beta, 1e-9)
}

func TestGetQuoteRejectsBadSymbol(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := c.GetQuote(context.Background(), "not a symbol")
	assert.ErrorIs(t, err, repository.ErrInvalidSymbol)
}

func TestGetQuoteEmptyResultIsNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
	}))

	_, err := c.GetQuote(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, repository.ErrSymbolNotFound)
}

func TestGetQuoteFallsBackToChart(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/quote" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"chart":{"result":[{
			"meta":{"symbol":"MSFT","regularMarketPrice":410,"chartPreviousClose":400}
		}],"error":null}}`))
	}))

	q, err := c.GetQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", q.Symbol)
	assert.InDelta(t, 410.0, q.Price, 1e-9)
	assert.InDelta(t, 2.5, q.ChangePercent, 1e-9)
}

func TestGetHistoricalDropsBadCloses(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{
			"meta":{"symbol":"AAPL"},
			"timestamp":[1704153600,1704240000,1704326400,1704412800],
			"indicators":{
				"quote":[{
					"open":[99,100,null,102],
					"high":[101,102,null,104],
					"low":[98,99,null,101],
					"close":[100,null,0,103],
					"volume":[1000,2000,0,4000]
				}],
				"adjclose":[{"adjclose":[100,null,0,103]}]
			}
		}],"error":null}}`))
	}))

	r, err := repository.ResolveRange("1M", "", "", time.Now())
	require.NoError(t, err)

	points, err := c.GetHistorical(context.Background(), "AAPL", r)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-02", points[0].Date)
	assert.InDelta(t, 100.0, points[0].Close, 1e-9)
	assert.InDelta(t, 103.0, points[1].Close, 1e-9)
}

func TestGetHistoricalNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	r, err := repository.ResolveRange("1W", "", "", time.Now())
	require.NoError(t, err)

	_, err = c.GetHistorical(context.Background(), "NOPE", r)
	assert.ErrorIs(t, err, repository.ErrSymbolNotFound)
}

func TestGetFundamentalsParsesModules(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Query().Get("modules"), "financialData")
		w.Write([]byte(`{"quoteSummary":{"result":[{
			"financialData":{
				"returnOnEquity":{"raw":0.45},
				"profitMargins":{"raw":0.25},
				"debtToEquity":{"raw":150.2}
			},
			"defaultKeyStatistics":{
				"forwardPE":{"raw":28.1},
				"trailingEps":{"raw":6.5},
				"pegRatio":{"raw":2.4}
			},
			"summaryProfile":{"sector":"Technology","industry":"Consumer Electronics"}
		}],"error":null}}`))
	}))

	f, err := c.GetFundamentals(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, f.ROE)
	assert.InDelta(t, 0.45, *f.ROE, 1e-9)
	require.NotNil(t, f.ForwardPE)
	assert.InDelta(t, 28.1, *f.ForwardPE, 1e-9)
	assert.Nil(t, f.ROA)
	assert.Equal(t, "Technology", f.Sector)
}
