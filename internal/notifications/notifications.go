// Package notifications dispatches reminder and milestone messages to the
// notification side-channel.
//
// Dispatch failures are logged and never propagate: a failed notification
// must not block or reverse the ledger mutation that triggered it.
package notifications

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Channel is the delivery channel for a message.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Valid reports whether the channel is one of the defined channels.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelWhatsApp
}

// Message is a notification to one or more contacts.
type Message struct {
	Contacts  []string  `json:"contacts"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Channel   Channel   `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON creates a message from JSON bytes.
func MessageFromJSON(data []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(data, &m)
	return m, err
}

// Dispatcher delivers messages to the notification collaborator.
type Dispatcher interface {
	Send(ctx context.Context, message Message) error
}

var (
	mu         sync.RWMutex
	dispatcher Dispatcher = NopDispatcher{}
)

// Configure sets the dispatcher used by Dispatch. The default is a
// NopDispatcher so that notification delivery is opt-in.
func Configure(d Dispatcher) {
	mu.Lock()
	defer mu.Unlock()
	dispatcher = d
}

// Dispatch sends the message through the configured dispatcher. Errors are
// logged, never returned.
func Dispatch(ctx context.Context, message Message) {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().In(time.UTC)
	}

	mu.RLock()
	d := dispatcher
	mu.RUnlock()

	if err := d.Send(ctx, message); err != nil {
		log.Error().Err(err).Str("channel", string(message.Channel)).Str("subject", message.Subject).Msg("notification dispatch failed")
	}
}

// NopDispatcher discards all messages.
type NopDispatcher struct{}

func (NopDispatcher) Send(context.Context, Message) error {
	return nil
}

// Recorder collects messages for tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
	Fail     error
}

func (r *Recorder) Send(_ context.Context, message Message) error {
	if r.Fail != nil {
		return r.Fail
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, message)
	return nil
}
