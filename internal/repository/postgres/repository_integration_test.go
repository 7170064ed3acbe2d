package postgres_test

import (
	"testing"
	"time"

	gorm "github.com/jinzhu/gorm"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"

	"tapseal/internal/models"
	repo "tapseal/internal/repository"
	pg "tapseal/internal/repository/postgres"
)

type pgEnv struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
	DB       *gorm.DB
	R        *repo.Repository
}

func upPostgres(t *testing.T) *pgEnv {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_DB=tapseal",
		"POSTGRES_USER=app",
		"POSTGRES_PASSWORD=app",
	})
	require.NoError(t, err)

	env := &pgEnv{pool: pool, resource: resource}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	require.NoError(t, pool.Retry(func() error {
		hostPort := resource.GetPort("5432/tcp")
		db, err := pg.ConnectDB(pg.Config{
			Host:     "localhost",
			Port:     hostPort,
			Username: "app",
			Password: "app",
			DbName:   "tapseal",
			SslMode:  "disable",
		})
		if err != nil {
			return err
		}
		env.DB = db

		if err := pg.Migrate(db); err != nil {
			return err
		}

		env.R = repo.NewRepository(db)
		return nil
	}))

	return env
}

func order(qty int, method models.PaymentMethod) models.Order {
	now := time.Now().UTC().Truncate(time.Second)
	return models.Order{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Status:    models.StatusPending,

		Quantity: qty,
		URL:      "https://example.com/profile",

		CustomerName:          "山田太郎",
		CustomerEmail:         "taro@example.com",
		CustomerPostalCode:    "1500001",
		CustomerPrefecture:    "東京都",
		CustomerCity:          "渋谷区",
		CustomerStreetAddress: "神宮前1-2-3",
		CustomerAddress:       "東京都渋谷区神宮前1-2-3",
		CustomerPhone:         "0312345678",

		PaymentMethod: method,
		PaymentStatus: models.PaymentUnpaid,
		PaymentAmount: 5500,
	}
}

func Test_Postgres_CreateGetUpdateDelete(t *testing.T) {
	env := upPostgres(t)

	o := order(5, models.PaymentCard)
	o.URLs = []models.OrderURL{
		{URL: "https://example.com/a", Label: "A"},
		{URL: "https://example.com/b", Label: "B"},
	}
	require.NoError(t, env.R.OrderPostgres.Create(&o, nil))

	got, err := env.R.OrderPostgres.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, o.ID, got.ID)
	require.Len(t, got.URLs, 2)
	require.Equal(t, 1, got.URLs[0].Position)
	require.Equal(t, 2, got.URLs[1].Position)

	err = env.R.OrderPostgres.Update(o.ID, map[string]interface{}{
		"status":     models.StatusProcessing,
		"updated_at": time.Now().UTC(),
	}, nil)
	require.NoError(t, err)

	got2, err := env.R.OrderPostgres.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusProcessing, got2.Status)

	require.NoError(t, env.R.OrderPostgres.Delete(o.ID))
	_, err = env.R.OrderPostgres.Get(o.ID)
	require.True(t, gorm.IsRecordNotFoundError(err))

	var urls []models.OrderURL
	require.NoError(t, env.DB.Where("order_refer = ?", o.ID).Find(&urls).Error)
	require.Len(t, urls, 0, "url rows must go with the order")
}

func Test_Postgres_Update_MissingOrder_NotFound(t *testing.T) {
	env := upPostgres(t)

	err := env.R.OrderPostgres.Update(uuid.New().String(),
		map[string]interface{}{"status": models.StatusShipped}, nil)
	require.True(t, gorm.IsRecordNotFoundError(err))
}

func Test_Postgres_GetAll_StatusFilter(t *testing.T) {
	env := upPostgres(t)

	a := order(5, models.PaymentCard)
	b := order(10, models.PaymentCard)
	b.Status = models.StatusShipped
	require.NoError(t, env.R.OrderPostgres.Create(&a, nil))
	require.NoError(t, env.R.OrderPostgres.Create(&b, nil))

	all, err := env.R.OrderPostgres.GetAll("")
	require.NoError(t, err)
	require.Len(t, all, 2)

	shipped, err := env.R.OrderPostgres.GetAll(models.StatusShipped)
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	require.Equal(t, b.ID, shipped[0].ID)
}

func Test_Postgres_GetByMonth_Bounds(t *testing.T) {
	env := upPostgres(t)

	in := order(5, models.PaymentCard)
	in.CreatedAt = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	out := order(5, models.PaymentCard)
	out.CreatedAt = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, env.R.OrderPostgres.Create(&in, nil))
	require.NoError(t, env.R.OrderPostgres.Create(&out, nil))

	june, err := env.R.OrderPostgres.GetByMonth(2025, time.June)
	require.NoError(t, err)
	require.Len(t, june, 1)
	require.Equal(t, in.ID, june[0].ID)
}

func Test_Postgres_InvoiceCounter_Sequences(t *testing.T) {
	env := upPostgres(t)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	n1, err := env.R.OrderPostgres.NextInvoiceNumber(day)
	require.NoError(t, err)
	require.Equal(t, "INV-20250601-0001", n1)

	n2, err := env.R.OrderPostgres.NextInvoiceNumber(day)
	require.NoError(t, err)
	require.Equal(t, "INV-20250601-0002", n2)

	// A new day starts over.
	n3, err := env.R.OrderPostgres.NextInvoiceNumber(day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Equal(t, "INV-20250602-0001", n3)
}

func Test_Postgres_InvoiceNumber_Unique(t *testing.T) {
	env := upPostgres(t)

	a := order(5, models.PaymentBankTransfer)
	a.InvoiceNumber = "INV-20250601-0001"
	b := order(5, models.PaymentBankTransfer)
	b.InvoiceNumber = "INV-20250601-0001"

	require.NoError(t, env.R.OrderPostgres.Create(&a, nil))
	require.Error(t, env.R.OrderPostgres.Create(&b, nil),
		"expected unique violation on orders(invoice_number)")
}

func Test_Postgres_WebhookApplyEvent(t *testing.T) {
	env := upPostgres(t)

	o := order(5, models.PaymentCard)
	require.NoError(t, env.R.OrderPostgres.Create(&o, nil))

	now := time.Now().UTC().Truncate(time.Second)
	ev := models.WebhookEvent{
		EventID:    "evt_1",
		Type:       "checkout.session.completed",
		OrderID:    o.ID,
		ReceivedAt: now,
	}
	fields := map[string]interface{}{
		"payment_status": models.PaymentPaid,
		"payment_date":   &now,
		"updated_at":     now,
	}

	fresh, err := env.R.WebhookPostgres.ApplyEvent(ev, fields, nil)
	require.NoError(t, err)
	require.True(t, fresh)

	got, err := env.R.OrderPostgres.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentPaid, got.PaymentStatus)

	fresh, err = env.R.WebhookPostgres.ApplyEvent(ev, fields, nil)
	require.NoError(t, err)
	require.False(t, fresh, "second delivery of the same event must be flagged")
}

func Test_Postgres_WebhookFailedUpdateRecordsNothing(t *testing.T) {
	env := upPostgres(t)

	now := time.Now().UTC().Truncate(time.Second)
	ev := models.WebhookEvent{
		EventID:    "evt_retry",
		Type:       "checkout.session.completed",
		OrderID:    uuid.New().String(),
		ReceivedAt: now,
	}
	fields := map[string]interface{}{
		"payment_status": models.PaymentPaid,
		"updated_at":     now,
	}

	// The order does not exist yet, so the update fails and the whole
	// transaction, event row included, rolls back.
	_, err := env.R.WebhookPostgres.ApplyEvent(ev, fields, nil)
	require.Error(t, err)

	o := order(5, models.PaymentCard)
	o.ID = ev.OrderID
	require.NoError(t, env.R.OrderPostgres.Create(&o, nil))

	// Redelivery of the same event id must still apply.
	fresh, err := env.R.WebhookPostgres.ApplyEvent(ev, fields, nil)
	require.NoError(t, err)
	require.True(t, fresh, "a failed delivery must not burn the event id")

	got, err := env.R.OrderPostgres.Get(o.ID)
	require.NoError(t, err)
	require.Equal(t, models.PaymentPaid, got.PaymentStatus)
}

func Test_Postgres_Outbox_Lifecycle(t *testing.T) {
	env := upPostgres(t)

	o := order(5, models.PaymentBankTransfer)
	mail := &models.EmailMessage{
		ID:        uuid.New().String(),
		Kind:      models.EmailOrderConfirmation,
		Payload:   []byte(`{"kind":"order_confirmation"}`),
		State:     models.EmailUnsent,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, env.R.OrderPostgres.Create(&o, mail))

	unsent, err := env.R.OutboxPostgres.FetchUnsent(10)
	require.NoError(t, err)
	require.Len(t, unsent, 1)
	require.Equal(t, o.ID, unsent[0].OrderID)

	require.NoError(t, env.R.OutboxPostgres.MarkFailed(mail.ID, "broker down"))
	unsent, err = env.R.OutboxPostgres.FetchUnsent(10)
	require.NoError(t, err)
	require.Len(t, unsent, 1, "failed rows stay eligible")
	require.Equal(t, 1, unsent[0].Attempts)
	require.Equal(t, "broker down", unsent[0].LastError)

	require.NoError(t, env.R.OutboxPostgres.MarkSent(mail.ID))
	unsent, err = env.R.OutboxPostgres.FetchUnsent(10)
	require.NoError(t, err)
	require.Len(t, unsent, 0)
}

func Test_Postgres_Create_DuplicateID_Error(t *testing.T) {
	env := upPostgres(t)

	o := order(5, models.PaymentCard)
	require.NoError(t, env.R.OrderPostgres.Create(&o, nil))

	dup := order(5, models.PaymentCard)
	dup.ID = o.ID
	require.Error(t, env.R.OrderPostgres.Create(&dup, nil),
		"expected duplicate key error from Create")
}

func Test_Postgres_OutboxRollsBackWithOrder(t *testing.T) {
	env := upPostgres(t)

	o := order(5, models.PaymentBankTransfer)
	require.NoError(t, env.R.OrderPostgres.Create(&o, nil))

	dup := order(5, models.PaymentBankTransfer)
	dup.ID = o.ID
	mail := &models.EmailMessage{
		ID:        uuid.New().String(),
		Kind:      models.EmailOrderConfirmation,
		Payload:   []byte(`{}`),
		State:     models.EmailUnsent,
		CreatedAt: time.Now().UTC(),
	}
	require.Error(t, env.R.OrderPostgres.Create(&dup, mail))

	unsent, err := env.R.OutboxPostgres.FetchUnsent(10)
	require.NoError(t, err)
	require.Len(t, unsent, 0, "outbox row must not survive a failed order insert")
}
