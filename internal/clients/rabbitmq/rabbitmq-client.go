package rabbitmq_client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/init-pkg/sheet-relay/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

const defaultDialTimeout = 5 * time.Second

// Publisher sends JSON events to a topic exchange. A publisher without a URL
// drops every event.
type Publisher struct {
	url      string
	exchange string
	log      *slog.Logger

	// sem serializes connection use; waiting on it honours the caller's ctx.
	sem  chan struct{}
	conn *amqp.Connection
	ch   *amqp.Channel
}

func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *Publisher {
	p := &Publisher{
		url:      cfg.Infrastructure.Rabbit.Url,
		exchange: cfg.Infrastructure.Rabbit.Exchange,
		log:      log,
		sem:      make(chan struct{}, 1),
	}
	if p.url == "" {
		log.Info("rabbitmq not configured, upload events disabled")
		return p
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})
	return p
}

func (this *Publisher) Enabled() bool {
	return this.url != ""
}

// Publish marshals payload and sends it with the given routing key. The
// connection is opened on first use and reopened after failures.
func (this *Publisher) Publish(ctx context.Context, routingKey string, payload any) error {
	if !this.Enabled() {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := this.lock(ctx); err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	defer this.unlock()

	if err := this.connect(ctx); err != nil {
		return err
	}

	err = this.ch.PublishWithContext(ctx, this.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		this.reset()
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

func (this *Publisher) connect(ctx context.Context) error {
	if this.ch != nil && !this.ch.IsClosed() {
		return nil
	}
	this.reset()

	conn, err := amqp.DialConfig(this.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(this.exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", this.exchange, err)
	}

	this.conn, this.ch = conn, ch
	this.log.Info("rabbitmq connected", "exchange", this.exchange)
	return nil
}

// dialContext bounds the TCP connect and the AMQP handshake by the deadline of
// ctx, or by defaultDialTimeout when ctx has none.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(defaultDialTimeout)
		}

		dialer := net.Dialer{Deadline: deadline}
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		// cleared by the client once the connection is open
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

func (this *Publisher) reset() {
	if this.conn != nil {
		_ = this.conn.Close()
	}
	this.conn, this.ch = nil, nil
}

func (this *Publisher) Close() error {
	if err := this.lock(context.Background()); err != nil {
		return err
	}
	defer this.unlock()

	this.reset()
	return nil
}

func (this *Publisher) lock(ctx context.Context) error {
	select {
	case this.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (this *Publisher) unlock() {
	<-this.sem
}
