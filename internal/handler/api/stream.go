package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"StockSquad/internal/domain/models"
	domrepo "StockSquad/internal/domain/repository"
	"StockSquad/internal/service/yahoo"
	xhttp "StockSquad/pkg/http"
	xlogger "StockSquad/pkg/logger"
)

// StreamConfig tunes the websocket quote stream.
type StreamConfig struct {
	PushInterval time.Duration `yaml:"push_interval" default:"5s"`
	MaxSymbols   int           `yaml:"max_symbols" default:"10"`
}

// StreamHandler pushes refreshed quotes for subscribed symbols over a
// websocket. Quotes flow through the cached gateway, so many clients
// watching the same symbols share one provider fetch per TTL.
type StreamHandler struct {
	logger   *xlogger.Logger
	market   domrepo.MarketData
	cfg      *StreamConfig
	upgrader websocket.Upgrader
}

// NewStreamHandler wires the websocket route.
func NewStreamHandler(logger *xlogger.Logger, market domrepo.MarketData, cfg *StreamConfig) *StreamHandler {
	return &StreamHandler{
		logger: logger,
		market: market,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes implements xhttp.Handler.
func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/quotes", h.Quotes)
}

type quotePush struct {
	At     time.Time            `json:"at"`
	Quotes []*models.AssetQuote `json:"quotes"`
	Errors map[string]string    `json:"errors,omitempty"`
}

// Quotes handles GET /ws/quotes?symbols=AAPL,MSFT.
func (h *StreamHandler) Quotes(c echo.Context) error {
	symbols, err := h.parseSymbols(c.QueryParam("symbols"))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	conn, uerr := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if uerr != nil {
		return uerr
	}
	defer conn.Close()

	h.logger.Info("quote stream opened",
		xlogger.Strings("symbols", symbols),
		xlogger.String("remote", conn.RemoteAddr().String()),
	)

	// Reader goroutine notices client close; we never expect inbound data.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request().Context()
	ticker := time.NewTicker(h.cfg.PushInterval)
	defer ticker.Stop()

	// First push immediately, then on the interval.
	if err := h.push(c, conn, symbols); err != nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
			if err := h.push(c, conn, symbols); err != nil {
				return nil
			}
		}
	}
}

func (h *StreamHandler) push(c echo.Context, conn *websocket.Conn, symbols []string) error {
	ctx := c.Request().Context()
	msg := quotePush{At: time.Now().UTC()}
	for _, s := range symbols {
		q, err := h.market.GetQuote(ctx, s)
		if err != nil {
			if msg.Errors == nil {
				msg.Errors = make(map[string]string)
			}
			msg.Errors[s] = err.Error()
			continue
		}
		msg.Quotes = append(msg.Quotes, q)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("quote stream write failed", xlogger.Error(err))
		return err
	}
	return nil
}

func (h *StreamHandler) parseSymbols(raw string) ([]string, error) {
	if raw == "" {
		return nil, xhttp.BadRequestError("symbols query parameter is required")
	}

	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.ToUpper(strings.TrimSpace(p))
		if s == "" {
			continue
		}
		if !yahoo.ValidSymbol(s) {
			return nil, xhttp.BadRequestErrorf("invalid symbol %q", s)
		}
		symbols = append(symbols, s)
	}
	if len(symbols) == 0 {
		return nil, xhttp.BadRequestError("no symbols given")
	}
	if len(symbols) > h.cfg.MaxSymbols {
		return nil, xhttp.BadRequestErrorf("at most %d symbols per stream", h.cfg.MaxSymbols)
	}
	return symbols, nil
}
