package kafka

import (
	"context"
	"errors"
	"strconv"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"tapseal/internal/email"
)

type Config struct {
	Brokers     []string
	GroupID     string
	Topic       string
	DLQ         string
	MaxRetries  int
	BaseBackoff time.Duration
}

// Handler consumes one raw message. A permanent error sends the message to
// the DLQ without retrying.
type Handler interface {
	HandleMessage(ctx context.Context, payload []byte) error
}

type Consumer struct {
	reader  *kafka.Reader
	dlq     *kafka.Writer
	handler Handler
	cfg     Config
}

func NewConsumer(cfg Config, handler Handler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        100 * time.Millisecond,
		CommitInterval: 0,
	})

	var w *kafka.Writer
	if cfg.DLQ != "" {
		w = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.DLQ,
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		}
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}

	return &Consumer{reader: r, dlq: w, handler: handler, cfg: cfg}
}

func (c *Consumer) Subscribe(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logrus.Errorf("kafka fetch: %v", err)
			select {
			case <-time.After(300 * time.Millisecond):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		logrus.Debugf("fetched topic=%s part=%d off=%d key=%q", m.Topic, m.Partition, m.Offset, string(m.Key))

		ok := false
		var last error
		for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
			if e := c.handler.HandleMessage(ctx, m.Value); e == nil {
				ok = true
				break
			} else if isNonRetryable(e) {
				last = e
				break
			} else {
				last = e
				time.Sleep(backoff(attempt, c.cfg.BaseBackoff))
			}
		}

		if ok {
			if err := c.reader.CommitMessages(ctx, m); err != nil {
				logrus.Errorf("commit failed (offset %d, partition %d): %v", m.Offset, m.Partition, err)
			}
			continue
		}

		if c.dlq != nil {
			if ctx.Err() != nil {
				return nil
			}
			dlqMsg := kafka.Message{
				Key:   m.Key,
				Value: m.Value,
				Headers: append(m.Headers,
					kafka.Header{Key: "x-dlq-reason", Value: []byte(trimErr(last))},
					kafka.Header{Key: "x-dlq-attempts", Value: []byte(strconv.Itoa(c.cfg.MaxRetries + 1))},
					kafka.Header{Key: "x-dlq-ts", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
					kafka.Header{Key: "x-dlq-source-topic", Value: []byte(c.cfg.Topic)},
					kafka.Header{Key: "x-dlq-group", Value: []byte(c.cfg.GroupID)},
				),
			}
			if err := c.dlq.WriteMessages(ctx, dlqMsg); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logrus.Errorf("write to DLQ failed (offset %d, partition %d): %v", m.Offset, m.Partition, err)
				time.Sleep(500 * time.Millisecond)
				continue
			}
		} else {
			logrus.Errorf("DLQ disabled, drop message (offset %d, partition %d): %v", m.Offset, m.Partition, last)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.Errorf("commit after DLQ (offset %d, partition %d) failed: %v", m.Offset, m.Partition, err)
		}
	}
}

func (c *Consumer) Close() error {
	var first error
	if c.reader != nil {
		if err := c.reader.Close(); err != nil {
			first = err
		}
	}
	if c.dlq != nil {
		if err := c.dlq.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func backoff(n int, base time.Duration) time.Duration {
	if n <= 0 {
		return 0
	}
	d := base * (1 << (n - 1))
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func trimErr(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	if len(s) > 1000 {
		return s[:1000]
	}
	return s
}

func isNonRetryable(err error) bool {
	return errors.Is(err, email.ErrDecode) || errors.Is(err, email.ErrCompose)
}
