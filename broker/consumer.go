package broker

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"study-sync/studysync/config"
)

// Message is a broker delivery stripped of transport details.
type Message struct {
	EventType string
	Data      []byte
}

type Consumer interface {
	Messages() <-chan Message
	Close()
}

type NATSConsumer struct {
	conn     *nats.Conn
	sub      *nats.Subscription
	raw      chan *nats.Msg
	messages chan Message
	prefix   string
	done     chan struct{}
}

// InitConsumer subscribes to every event under the configured prefix. Each
// process gets its own copy of every event.
func InitConsumer(cfg config.Config, name string) (*NATSConsumer, error) {
	conn, err := connect(cfg, name)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	c := &NATSConsumer{
		conn:     conn,
		raw:      make(chan *nats.Msg, 256),
		messages: make(chan Message, 256),
		prefix:   cfg.NATSSubjectPrefix,
		done:     make(chan struct{}),
	}

	c.sub, err = conn.ChanSubscribe(Wildcard(cfg.NATSSubjectPrefix), c.raw)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.forward()
	log.Info().Str("subject", c.sub.Subject).Str("consumer", name).Msg("nats consumer started")
	return c, nil
}

func (c *NATSConsumer) forward() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.raw:
			select {
			case c.messages <- Message{EventType: EventTypeFromSubject(c.prefix, msg.Subject), Data: msg.Data}:
			case <-c.done:
				return
			}
		}
	}
}

func (c *NATSConsumer) Messages() <-chan Message {
	return c.messages
}

func (c *NATSConsumer) Close() {
	select {
	case <-c.done:
		return
	default:
	}
	close(c.done)
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe nats consumer")
		}
	}
	c.conn.Close()
}
