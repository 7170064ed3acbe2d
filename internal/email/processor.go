package email

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"tapseal/internal/models"
)

var (
	// ErrDecode marks a payload that will never parse; retrying is pointless.
	ErrDecode = errors.New("email: decode job")
	// ErrCompose marks a job the renderer rejects, e.g. an unknown kind.
	ErrCompose = errors.New("email: compose")
)

// Processor is the consumer side of the pipeline: one kafka message in, one
// delivered email out.
type Processor struct {
	composer *Composer
	sender   Sender
}

func NewProcessor(composer *Composer, sender Sender) *Processor {
	return &Processor{composer: composer, sender: sender}
}

func (p *Processor) HandleMessage(ctx context.Context, payload []byte) error {
	var job models.EmailJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return errors.Wrap(ErrDecode, err.Error())
	}

	msg, err := p.composer.Compose(ctx, job)
	if err != nil {
		return errors.Wrap(ErrCompose, err.Error())
	}

	if err := p.sender.Send(ctx, msg); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": job.Order.ID,
		"kind":     job.Kind,
		"to":       msg.To,
	}).Info("email sent")
	return nil
}
