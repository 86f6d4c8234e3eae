package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/paydocs/internal/clock"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	docrepo "github.com/smallbiznis/paydocs/internal/document/repository"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	orderrepo "github.com/smallbiznis/paydocs/internal/order/repository"
	"github.com/smallbiznis/paydocs/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   orderdomain.Service
	docs  documentdomain.Repository
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&orderdomain.Order{},
		&orderdomain.OrderDocument{},
		&orderdomain.PaymentEventRecord{},
		&documentdomain.GeneratedDocument{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	docs := docrepo.NewRepository(docrepo.RepositoryParam{DB: db})
	svc := NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewSystemClock(),
		Repo:  orderrepo.NewRepository(orderrepo.RepositoryParam{DB: db}),
		Docs:  docs,
	})

	return &fixture{svc: svc, docs: docs, genID: node}
}

func (f *fixture) document(t *testing.T, ownerUserID string) *documentdomain.GeneratedDocument {
	t.Helper()

	doc := &documentdomain.GeneratedDocument{
		ID:          f.genID.Generate(),
		OwnerUserID: ownerUserID,
		Type:        documentdomain.DocumentTypePaystub,
		Status:      documentdomain.DocumentStatusPreviewed,
		Payload:     []byte(`{}`),
	}
	require.NoError(t, f.docs.Save(context.Background(), doc))
	return doc
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
		OwnerUserID: "user-1",
		Package:     orderdomain.PackageBundle,
		AmountCents: 2_999,
	})
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, orderdomain.OrderStatusPending, order.Status)

	t.Run("references are unique", func(t *testing.T) {
		other, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
			OwnerUserID: "user-1",
			Package:     orderdomain.PackagePaystub,
			AmountCents: 999,
		})
		require.NoError(t, err)
		assert.NotEqual(t, order.Reference, other.Reference)
	})

	t.Run("zero amount defaults to the list price", func(t *testing.T) {
		priced, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
			OwnerUserID: "user-1",
			Package:     orderdomain.PackageTaxReturn,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1_499), priced.AmountCents)
	})

	t.Run("unknown package rejected", func(t *testing.T) {
		_, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
			OwnerUserID: "user-1",
			Package:     orderdomain.PackageType("poster"),
			AmountCents: 999,
		})
		assert.ErrorIs(t, err, orderdomain.ErrInvalidPackage)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
			OwnerUserID: "user-1",
			Package:     orderdomain.PackagePaystub,
			AmountCents: -1,
		})
		assert.ErrorIs(t, err, orderdomain.ErrInvalidPackage)
	})
}

func TestGetOrderOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
		OwnerUserID: "user-1",
		Package:     orderdomain.PackagePaystub,
		AmountCents: 999,
	})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.svc.Get(ctx, "user-2", order.ID)
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)
}

func TestHandlePaymentEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
		OwnerUserID: "user-1",
		Package:     orderdomain.PackagePaystub,
		AmountCents: 999,
	})
	require.NoError(t, err)

	t.Run("paid event transitions the order", func(t *testing.T) {
		updated, err := f.svc.HandlePaymentEvent(ctx, orderdomain.PaymentEvent{
			EventID:        "evt-1",
			OrderReference: order.Reference,
			Status:         orderdomain.OrderStatusPaid,
		})
		require.NoError(t, err)
		assert.Equal(t, orderdomain.OrderStatusPaid, updated.Status)
	})

	t.Run("replayed event id is a no-op", func(t *testing.T) {
		// Same event ID, contradictory status: the stored outcome wins.
		updated, err := f.svc.HandlePaymentEvent(ctx, orderdomain.PaymentEvent{
			EventID:        "evt-1",
			OrderReference: order.Reference,
			Status:         orderdomain.OrderStatusFailed,
		})
		require.NoError(t, err)
		assert.Equal(t, orderdomain.OrderStatusPaid, updated.Status)
	})

	t.Run("backwards transition rejected", func(t *testing.T) {
		_, err := f.svc.HandlePaymentEvent(ctx, orderdomain.PaymentEvent{
			EventID:        "evt-2",
			OrderReference: order.Reference,
			Status:         orderdomain.OrderStatusFailed,
		})
		assert.ErrorIs(t, err, orderdomain.ErrInvalidTransition)
	})

	t.Run("refund after payment", func(t *testing.T) {
		updated, err := f.svc.HandlePaymentEvent(ctx, orderdomain.PaymentEvent{
			EventID:        "evt-3",
			OrderReference: order.Reference,
			Status:         orderdomain.OrderStatusRefunded,
		})
		require.NoError(t, err)
		assert.Equal(t, orderdomain.OrderStatusRefunded, updated.Status)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := f.svc.HandlePaymentEvent(ctx, orderdomain.PaymentEvent{
			EventID:        "evt-4",
			OrderReference: "no-such-order",
			Status:         orderdomain.OrderStatusPaid,
		})
		assert.ErrorIs(t, err, orderdomain.ErrNotFound)
	})

	t.Run("malformed event", func(t *testing.T) {
		_, err := f.svc.HandlePaymentEvent(ctx, orderdomain.PaymentEvent{
			EventID:        "evt-5",
			OrderReference: order.Reference,
			Status:         orderdomain.OrderStatus("settled"),
		})
		assert.ErrorIs(t, err, orderdomain.ErrInvalidEvent)
	})
}

func TestLinkDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
		OwnerUserID: "user-1",
		Package:     orderdomain.PackagePaystub,
		AmountCents: 999,
	})
	require.NoError(t, err)

	doc := f.document(t, "user-1")

	require.NoError(t, f.svc.LinkDocument(ctx, "user-1", order.ID, doc.ID))

	t.Run("linking twice is idempotent", func(t *testing.T) {
		require.NoError(t, f.svc.LinkDocument(ctx, "user-1", order.ID, doc.ID))

		data, _, err := f.svc.Dashboard(ctx, "user-1", pagination.Pagination{PageSize: 10})
		require.NoError(t, err)
		require.Len(t, data.Orders, 1)
		assert.Len(t, data.Orders[0].DocumentIDs, 1)
	})

	t.Run("foreign document rejected", func(t *testing.T) {
		foreign := f.document(t, "user-2")
		err := f.svc.LinkDocument(ctx, "user-1", order.ID, foreign.ID)
		assert.ErrorIs(t, err, orderdomain.ErrOwnershipMismatch)
	})

	t.Run("foreign order rejected", func(t *testing.T) {
		err := f.svc.LinkDocument(ctx, "user-2", order.ID, doc.ID)
		assert.ErrorIs(t, err, orderdomain.ErrNotFound)
	})
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var created []orderdomain.Order
	for i := 0; i < 5; i++ {
		order, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
			OwnerUserID: "user-1",
			Package:     orderdomain.PackagePaystub,
			AmountCents: 999,
		})
		require.NoError(t, err)
		created = append(created, order)
	}

	// An order for someone else never shows up.
	_, err := f.svc.Create(ctx, orderdomain.CreateOrderRequest{
		OwnerUserID: "user-2",
		Package:     orderdomain.PackageW2,
		AmountCents: 999,
	})
	require.NoError(t, err)

	t.Run("most recent first", func(t *testing.T) {
		data, pageInfo, err := f.svc.Dashboard(ctx, "user-1", pagination.Pagination{PageSize: 10})
		require.NoError(t, err)
		require.Len(t, data.Orders, 5)
		assert.False(t, pageInfo.HasMore)
		assert.Equal(t, created[4].ID, data.Orders[0].Order.ID)
		assert.Equal(t, created[0].ID, data.Orders[4].Order.ID)
	})

	t.Run("owner's documents are included", func(t *testing.T) {
		mine := f.document(t, "user-1")
		f.document(t, "user-2")

		data, _, err := f.svc.Dashboard(ctx, "user-1", pagination.Pagination{PageSize: 10})
		require.NoError(t, err)
		require.Len(t, data.Documents, 1)
		assert.Equal(t, mine.ID, data.Documents[0].ID)
		// Stored payloads are served exactly as written.
		assert.JSONEq(t, `{}`, string(data.Documents[0].Payload))
	})

	t.Run("cursor pagination walks the full set", func(t *testing.T) {
		data, pageInfo, err := f.svc.Dashboard(ctx, "user-1", pagination.Pagination{PageSize: 2})
		require.NoError(t, err)
		require.Len(t, data.Orders, 2)
		require.True(t, pageInfo.HasMore)

		seen := []snowflake.ID{data.Orders[0].Order.ID, data.Orders[1].Order.ID}
		for pageInfo.HasMore {
			data, pageInfo, err = f.svc.Dashboard(ctx, "user-1", pagination.Pagination{
				PageSize:  2,
				PageToken: pageInfo.NextPageToken,
			})
			require.NoError(t, err)
			for _, entry := range data.Orders {
				seen = append(seen, entry.Order.ID)
			}
		}

		// Every order shows up exactly once, newest to oldest.
		require.Len(t, seen, 5)
		for i, entry := range seen {
			assert.Equal(t, created[4-i].ID, entry)
		}
	})
}
