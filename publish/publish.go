// Package publish streams valuations to a Kafka topic.
package publish

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/etnz/folio"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Key is the message key of every published valuation: they all land in the
// same partition, in order.
const Key = "portfolio"

// MessageWriter is the part of *kafka.Writer used by the Publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter returns a kafka writer to topic on brokers.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
}

// QueueSize is the number of valuations waiting to be written before Publish
// starts dropping them.
const QueueSize = 16

// Publisher writes each valuation it receives as a JSON message.
//
// Writes happen on a goroutine of their own: Publish never waits for the broker.
type Publisher struct {
	w       MessageWriter
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan folio.Valuation
	done   chan struct{}
}

// New returns a publisher writing to w. Close must be called to release it.
func New(w MessageWriter, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Publisher{
		w:       w,
		logger:  logger.Named("publish"),
		timeout: 10 * time.Second,
		queue:   make(chan folio.Valuation, QueueSize),
		done:    make(chan struct{}),
	}
	go p.drain()
	return p
}

// Publish queues v for writing. When the queue is full v is dropped with a
// warning. A write failure is logged and otherwise ignored.
func (p *Publisher) Publish(v folio.Valuation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.logger.Warn("publisher closed, valuation dropped")
		return
	}
	select {
	case p.queue <- v:
	default:
		p.logger.Warn("publish queue full, valuation dropped", zap.Time("at", v.At))
	}
}

func (p *Publisher) drain() {
	defer close(p.done)
	for v := range p.queue {
		p.write(v)
	}
}

func (p *Publisher) write(v folio.Valuation) {
	value, err := json.Marshal(v)
	if err != nil {
		p.logger.Error("error encoding valuation", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	msg := kafka.Message{Key: []byte(Key), Value: value, Time: v.At}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("error publishing valuation", zap.Error(err))
		return
	}
	p.logger.Debug("valuation published", zap.Int("bytes", len(value)))
}

// Close writes the queued valuations, then closes the underlying writer.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
	return p.w.Close()
}
