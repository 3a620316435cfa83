package ingestor

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"

	lj "github.com/elastic/go-lumber/lj"
	srv2 "github.com/elastic/go-lumber/server/v2"
)

// ErrMissingMessage is returned for events without a string "message" field.
var ErrMissingMessage = errors.New("missing message field")

// --- TCP Ingestor using go-lumber v2 ---

// TCPIngestor receives keys from Filebeat. Every event's "message" field
// holds one or more keys in the same format as a key file line.
type TCPIngestor struct {
	listener    net.Listener
	readTimeout time.Duration // for server
	events      chan *lj.Batch
	server      *srv2.Server

	eventCount int
	// closed is set once the receive goroutine has stopped sending
	closed atomic.Bool
}

func NewTCPIngestor(addr string, readTimeout time.Duration) (*TCPIngestor, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &TCPIngestor{
		listener:    ln,
		readTimeout: readTimeout,
		events:      make(chan *lj.Batch, 1000),
	}, nil
}

// Addr is the address the ingestor listens on.
func (ing *TCPIngestor) Addr() net.Addr {
	return ing.listener.Addr()
}

// Accept starts the lumberjack v2 Server.
func (ing *TCPIngestor) Accept() error {
	srv, err := srv2.NewWithListener(
		ing.listener,
		srv2.Timeout(ing.readTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create lumberjack server: %w", err)
	}
	ing.server = srv

	// Pull batches off ReceiveChan and ack them.
	go func() {
		for batch := range ing.server.ReceiveChan() {
			ing.events <- batch
			batch.ACK()
		}
		ing.closed.Store(true)
		close(ing.events)
	}()

	return nil
}

// parseEvent appends the keys of one event to tokens.
func parseEvent(evt map[string]interface{}, line int, tokens []Token) ([]Token, error) {
	msg, ok := evt["message"].(string)
	if !ok {
		return tokens, ErrMissingMessage
	}

	msg = strings.TrimSpace(msg)
	if msg == "" || strings.HasPrefix(msg, "#") {
		return tokens, nil
	}
	return appendFields(tokens, msg, line), nil
}

// ReadBatch drains every batch currently queued and returns their key
// tokens in arrival order. Token.Line numbers events across the lifetime of
// the ingestor. The second result counts events that were skipped because
// they had no message.
func (ing *TCPIngestor) ReadBatch() ([]Token, int, error) {
	var out []Token
	skipped := 0

	for {
		select {
		case batch, ok := <-ing.events:
			if !ok {
				return out, skipped, nil
			}
			for _, evt := range batch.Events {
				ing.eventCount++
				m, ok := evt.(map[string]interface{})
				if !ok {
					skipped++
					continue
				}
				var err error
				if out, err = parseEvent(m, ing.eventCount, out); err != nil {
					skipped++
				}
			}
		default:
			// Channel is empty, return what we have
			return out, skipped, nil
		}
	}
}

// IsClosed reports whether the server has stopped and every received batch
// has been drained. Queued batches are left in place.
func (ing *TCPIngestor) IsClosed() bool {
	if ing.server == nil {
		return true
	}
	return ing.closed.Load() && len(ing.events) == 0
}

// Close shuts down the server and listener.
func (ing *TCPIngestor) Close() error {
	if ing.server != nil {
		ing.server.Close()
	}
	return ing.listener.Close()
}
