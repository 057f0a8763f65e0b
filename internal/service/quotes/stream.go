package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"StockSight/internal/domain/models"
	drepo "StockSight/internal/domain/repository"
	applogger "StockSight/pkg/logger"
	pkgmetrics "StockSight/pkg/metrics"

	"github.com/gorilla/websocket"
)

// Stream maintains a live last-trade quote per subscribed symbol over a
// provider WebSocket feed. Quotes only refine the displayed price; analysis
// itself runs on stored bars.
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *applogger.Logger
	rec            *pkgmetrics.QuoteRecorder

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	last      map[string]models.Quote
}

func New(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, log *applogger.Logger) *Stream {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
		last:           make(map[string]models.Quote),
	}
}

// SetRecorder attaches a metrics recorder for feed observability.
func (s *Stream) SetRecorder(rec *pkgmetrics.QuoteRecorder) { s.rec = rec }

type wsTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type wsMessage struct {
	Type string    `json:"type"`
	Data []wsTrade `json:"data"`
}

// Run connects, subscribes, and consumes the feed until ctx is done,
// reconnecting with a fixed delay on read failure.
func (s *Stream) Run(ctx context.Context) error {
	for {
		if err := s.connect(ctx); err != nil {
			if s.rec != nil {
				s.rec.RecordError("connect")
			}
			if s.log != nil {
				s.log.Warn("quote stream connect failed", applogger.Error(err))
			}
		} else {
			s.readLoop(ctx)
		}

		select {
		case <-ctx.Done():
			_ = s.Close()
			return ctx.Err()
		case <-time.After(s.reconnectDelay):
			if s.rec != nil {
				s.rec.RecordReconnect()
			}
		}
	}
}

func (s *Stream) connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("quote stream connect: %w", err)
	}

	for _, sym := range s.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	if s.log != nil {
		s.log.Info("quote stream connected", applogger.Int("symbols", len(s.symbols)))
	}
	return nil
}

func (s *Stream) readLoop(ctx context.Context) {
	pingCtx, stopPing := context.WithCancel(ctx)
	defer stopPing()
	go s.pingLoop(pingCtx)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.mu.RLock()
		conn := s.conn
		s.mu.RUnlock()
		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			s.connected = false
			s.mu.Unlock()
			if s.rec != nil {
				s.rec.RecordError("read")
			}
			if s.log != nil {
				s.log.Warn("quote stream read error", applogger.Error(err))
			}
			return
		}

		var m wsMessage
		if err := json.Unmarshal(b, &m); err != nil {
			// non-trade frame
			continue
		}
		if m.Type != "trade" {
			continue
		}
		s.mu.Lock()
		for _, d := range m.Data {
			s.last[d.S] = models.Quote{
				Symbol:    d.S,
				Price:     d.P,
				Volume:    d.V,
				Timestamp: time.UnixMilli(d.T),
			}
			if s.rec != nil {
				s.rec.RecordQuote(d.S, d.P)
			}
		}
		s.mu.Unlock()
	}
}

func (s *Stream) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			conn := s.conn
			s.mu.RUnlock()
			if conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

// Last returns the most recent quote for symbol, if any arrived.
func (s *Stream) Last(symbol string) (models.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.last[symbol]
	return q, ok
}

func (s *Stream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

var _ drepo.QuoteStream = (*Stream)(nil)
