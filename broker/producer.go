package broker

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"study-sync/studysync/config"
)

type Producer interface {
	Publish(eventType string, data []byte) error
	Close()
}

type NATSProducer struct {
	conn   *nats.Conn
	prefix string
}

func connect(cfg config.Config, name string) (*nats.Conn, error) {
	return nats.Connect(cfg.NATSURL,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Str("client", name).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("client", name).Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
}

func InitProducer(cfg config.Config) (*NATSProducer, error) {
	conn, err := connect(cfg, "studysync-producer")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	log.Info().Str("url", cfg.NATSURL).Msg("nats producer initialized")
	return &NATSProducer{conn: conn, prefix: cfg.NATSSubjectPrefix}, nil
}

func (p *NATSProducer) Publish(eventType string, data []byte) error {
	if p == nil || p.conn == nil {
		return nats.ErrConnectionClosed
	}
	subject := Subject(p.prefix, eventType)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	log.Debug().Str("subject", subject).Msg("published event")
	return nil
}

func (p *NATSProducer) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		log.Warn().Err(err).Msg("failed to drain nats producer")
	}
}
