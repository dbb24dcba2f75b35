// Package live consumes the backend's websocket push channel and fans
// messages out to subscribers with deterministic teardown.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a frame to the server.
	writeWait = 10 * time.Second

	// Per-subscription channel buffer. A subscriber that falls this far
	// behind starts losing messages instead of blocking the reader.
	subscriptionBuffer = 16
)

// Message is a pushed chat message.
type Message struct {
	SenderID   int64     `json:"senderId"`
	ReceiverID int64     `json:"receiverId"`
	Content    string    `json:"contenu"`
	SentAt     time.Time `json:"createdAt"`
}

// envelope is the wire frame: a type tag and a type-dependent payload.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Feed is one live connection. Closing the feed closes every subscription
// channel, so consumers drain and stop without leaked listeners.
type Feed struct {
	conn *websocket.Conn
	log  zerolog.Logger

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool

	closeOnce sync.Once
}

// Subscription is one consumer's handle on the feed. C is closed when the
// subscription or the feed is closed.
type Subscription struct {
	C    <-chan Message
	ch   chan Message
	feed *Feed
	once sync.Once
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.feed.remove(s)
	})
}

// Dial connects to the push endpoint, authenticates with the bearer token
// and starts the reader loop.
func Dial(ctx context.Context, rawURL, token string) (*Feed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("live: dial %s: %w", rawURL, err)
	}

	f := &Feed{
		conn: conn,
		subs: make(map[*Subscription]struct{}),
		log:  log.With().Str("component", "live").Logger(),
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	auth := envelope{Type: "authenticate", Data: jsonString(token)}
	if err := conn.WriteJSON(auth); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live: authenticate: %w", err)
	}

	go f.read()
	return f, nil
}

// Subscribe attaches a new consumer. Subscribing to a closed feed returns a
// subscription whose channel is already closed.
func (f *Feed) Subscribe() *Subscription {
	ch := make(chan Message, subscriptionBuffer)
	sub := &Subscription{C: ch, ch: ch, feed: f}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return sub
	}
	f.subs[sub] = struct{}{}
	return sub
}

// Close shuts the connection down. The reader loop then tears down every
// subscription exactly once.
func (f *Feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		f.conn.SetWriteDeadline(time.Now().Add(writeWait))
		f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = f.conn.Close()
	})
	return err
}

func (f *Feed) read() {
	defer f.teardown()

	for {
		var env envelope
		if err := f.conn.ReadJSON(&env); err != nil {
			return
		}

		switch env.Type {
		case "new_message":
			var msg Message
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				f.log.Debug().Err(err).Msg("skipping malformed message frame")
				continue
			}
			f.broadcast(msg)
		case "authenticated":
			f.log.Debug().Msg("feed authenticated")
		default:
			// typing indicators and unknown frames are not surfaced
		}
	}
}

func (f *Feed) broadcast(msg Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		select {
		case sub.ch <- msg:
		default:
			f.log.Warn().Msg("slow subscriber, dropping message")
		}
	}
}

func (f *Feed) teardown() {
	f.conn.Close()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for sub := range f.subs {
		close(sub.ch)
		delete(f.subs, sub)
	}
}

func (f *Feed) remove(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[sub]; ok {
		delete(f.subs, sub)
		close(sub.ch)
	}
}

func jsonString(s string) json.RawMessage {
	data, _ := json.Marshal(s)
	return data
}
