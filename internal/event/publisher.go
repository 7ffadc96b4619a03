package event

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
	"github.com/streadway/amqp"
)

// Publisher mirrors broadcast events onto a topic exchange so consumers
// outside this process (other instances, notification workers) can react.
type Publisher interface {
	Publish(routingKey string, payload interface{}) error
	Close()
}

type amqpPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher connects to the broker from config. When no AMQP URL is
// configured it degrades to a no-op publisher: fan-out then happens only
// through the in-process hub.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	if cfg.AMQP.URL == "" {
		log.Warn().Msg("AMQP_URL is not set, event publishing is local-only")
		return noopPublisher{}, nil
	}

	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(cfg.AMQP.Exchange, "topic", true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("AMQP publisher connected")
	return &amqpPublisher{conn: conn, channel: ch, exchange: cfg.AMQP.Exchange}, nil
}

func (p *amqpPublisher) Publish(routingKey string, payload interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"type":    routingKey,
		"payload": payload,
	})
	if err != nil {
		return err
	}

	return p.channel.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *amqpPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) error { return nil }
func (noopPublisher) Close()                            {}
