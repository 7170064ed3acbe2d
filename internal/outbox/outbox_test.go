package outbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"tapseal/internal/models"
)

type outboxStub struct {
	rows   []models.EmailMessage
	sent   []string
	failed map[string]string
}

func (o *outboxStub) FetchUnsent(limit int) ([]models.EmailMessage, error) {
	if limit < len(o.rows) {
		return o.rows[:limit], nil
	}
	return o.rows, nil
}

func (o *outboxStub) MarkSent(id string) error {
	o.sent = append(o.sent, id)
	return nil
}

func (o *outboxStub) MarkFailed(id, reason string) error {
	if o.failed == nil {
		o.failed = map[string]string{}
	}
	o.failed[id] = reason
	return nil
}

type pubStub struct {
	keys    []string
	failKey string
}

func (p *pubStub) Publish(_ context.Context, key string, _ []byte) error {
	if key == p.failKey {
		return fmt.Errorf("broker down")
	}
	p.keys = append(p.keys, key)
	return nil
}

func TestDrain_PublishesAndMarksSent(t *testing.T) {
	repo := &outboxStub{rows: []models.EmailMessage{
		{ID: "m1", OrderID: "o1", Kind: models.EmailOrderConfirmation, Payload: []byte(`{}`)},
		{ID: "m2", OrderID: "o2", Kind: models.EmailOrderShipped, Payload: []byte(`{}`)},
	}}
	pub := &pubStub{}

	d := NewDispatcher(repo, pub)
	require.NoError(t, d.drain(context.Background()))

	require.Equal(t, []string{"o1", "o2"}, pub.keys)
	require.Equal(t, []string{"m1", "m2"}, repo.sent)
	require.Empty(t, repo.failed)
}

func TestDrain_FailureMarksRowAndContinues(t *testing.T) {
	repo := &outboxStub{rows: []models.EmailMessage{
		{ID: "m1", OrderID: "bad", Payload: []byte(`{}`)},
		{ID: "m2", OrderID: "o2", Payload: []byte(`{}`)},
	}}
	pub := &pubStub{failKey: "bad"}

	d := NewDispatcher(repo, pub)
	require.NoError(t, d.drain(context.Background()))

	require.Equal(t, []string{"o2"}, pub.keys)
	require.Equal(t, []string{"m2"}, repo.sent)
	require.Contains(t, repo.failed["m1"], "broker down")
}
