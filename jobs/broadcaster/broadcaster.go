// Package broadcaster drains the event outbox into Kafka. Records move
// NEW -> SENT -> ACKED; anything stuck in SENT after a failed publish is
// retried on the next scan, so consumers may see duplicates but never a gap.
package broadcaster

import (
	"context"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"ticker/infra/outbox"
)

const scanInterval = 250 * time.Millisecond

type Broadcaster struct {
	log      *zap.Logger
	outbox   *outbox.Outbox
	producer sarama.SyncProducer
	topic    string
}

func New(log *zap.Logger, ob *outbox.Outbox, brokers []string, topic string) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return newWithProducer(log, ob, producer, topic), nil
}

func newWithProducer(log *zap.Logger, ob *outbox.Outbox, producer sarama.SyncProducer, topic string) *Broadcaster {
	return &Broadcaster{
		log:      log,
		outbox:   ob,
		producer: producer,
		topic:    topic,
	}
}

// Start scans the outbox on a short ticker until the context is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	b.log.Info("broadcaster started", zap.String("topic", b.topic))

	go func() {
		ticker := time.NewTicker(scanInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				b.log.Info("broadcaster stopped")
				return
			case <-ticker.C:
				b.replayOnce()
			}
		}
	}()
}

func (b *Broadcaster) replayOnce() {
	err := b.outbox.ScanUnacked(func(rec outbox.Record) error {
		// SENT before the publish attempt, so a crash mid-send leaves a
		// retryable record rather than a lost one.
		if err := b.outbox.Mark(rec.Seq, outbox.StateSent, time.Now().UnixMicro()); err != nil {
			return err
		}

		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Key:   sarama.StringEncoder(strconv.FormatUint(rec.Seq, 10)),
			Value: sarama.ByteEncoder(rec.Payload),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			b.log.Warn("publish failed, will retry",
				zap.Uint64("seq", rec.Seq),
				zap.Uint32("retries", rec.Retries),
				zap.Error(err))
			return nil
		}

		return b.outbox.Mark(rec.Seq, outbox.StateAcked, time.Now().UnixMicro())
	})
	if err != nil {
		b.log.Error("outbox scan failed", zap.Error(err))
	}
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
