package queue

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits receipt events to the broker over a held connection.
// The connection is opened lazily and re-opened after a failure, so a
// broker outage costs one failed publish, not a crash. Errors are logged
// and returned; callers treat delivery as best-effort.
type Publisher struct {
	mu   sync.Mutex
	url  string
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher returns a Publisher for the broker named by RABBITMQ_URL
// (or AMQP_URL). No connection is made until the first publish.
func NewPublisher() *Publisher {
	return &Publisher{url: brokerURL()}
}

// PublishReceiptIssued sends a persistent ReceiptIssuedEvent to the
// receipt.issued queue. A stale channel gets one reconnect attempt before
// the error is reported.
func (p *Publisher) PublishReceiptIssued(ctx context.Context, event ReceiptIssuedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.send(ctx, body); err != nil {
		p.reset()
		if err = p.send(ctx, body); err != nil {
			log.Printf("rabbitmq: publish failed: %v", err)
			return err
		}
	}
	return nil
}

// Close tears down the held connection. Safe to call on an idle Publisher.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

// send publishes over the current channel, establishing it first when
// needed. Caller holds the lock.
func (p *Publisher) send(ctx context.Context, body []byte) error {
	if p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}
	return p.ch.PublishWithContext(ctx,
		"",               // default exchange
		receiptQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}

// connect dials the broker, opens a channel and declares the durable
// queue. Caller holds the lock.
func (p *Publisher) connect() error {
	p.reset()
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if _, err := ch.QueueDeclare(receiptQueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
