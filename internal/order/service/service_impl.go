package service

import (
	"context"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/paydocs/internal/clock"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	"github.com/smallbiznis/paydocs/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	"github.com/smallbiznis/paydocs/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    orderdomain.Repository
	docs    documentdomain.Repository
	metrics *metrics.Metrics
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    orderdomain.Repository
	Docs    documentdomain.Repository
	Metrics *metrics.Metrics
}

func NewService(p ServiceParam) orderdomain.Service {
	return &Service{
		log:     p.Log.Named("order.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		docs:    p.Docs,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req orderdomain.CreateOrderRequest) (orderdomain.Order, error) {
	if req.OwnerUserID == "" || !req.Package.Valid() || req.AmountCents < 0 {
		return orderdomain.Order{}, orderdomain.ErrInvalidPackage
	}
	if req.AmountCents == 0 {
		req.AmountCents = req.Package.PriceCents()
	}

	order := orderdomain.Order{
		ID:          s.genID.Generate(),
		Reference:   ulid.Make().String(),
		OwnerUserID: req.OwnerUserID,
		Package:     req.Package,
		AmountCents: req.AmountCents,
		Status:      orderdomain.OrderStatusPending,
	}
	if err := s.repo.Save(ctx, &order); err != nil {
		return orderdomain.Order{}, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("reference", order.Reference),
		zap.String("package", string(order.Package)),
	)
	return order, nil
}

func (s *Service) Get(ctx context.Context, ownerUserID string, id snowflake.ID) (orderdomain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return orderdomain.Order{}, err
	}
	if order == nil || order.OwnerUserID != ownerUserID {
		return orderdomain.Order{}, orderdomain.ErrNotFound
	}
	return *order, nil
}

// LinkDocument attaches a document to an order. Both sides must belong
// to the same owner; a document is never sold under someone else's
// order.
func (s *Service) LinkDocument(ctx context.Context, ownerUserID string, orderID, documentID snowflake.ID) error {
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil || order.OwnerUserID != ownerUserID {
		return orderdomain.ErrNotFound
	}

	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return documentdomain.ErrNotFound
	}
	if doc.OwnerUserID != order.OwnerUserID {
		return orderdomain.ErrOwnershipMismatch
	}

	return s.repo.LinkDocument(ctx, &orderdomain.OrderDocument{
		ID:         s.genID.Generate(),
		OrderID:    order.ID,
		DocumentID: doc.ID,
	})
}

// Dashboard is the owner's ledger view: their documents most recent
// first, plus their orders with the document IDs each covers. Stored
// payloads are served as-is; the ledger never recomputes them.
func (s *Service) Dashboard(ctx context.Context, ownerUserID string, p pagination.Pagination) (orderdomain.DashboardData, *pagination.PageInfo, error) {
	if p.PageSize <= 0 {
		p.PageSize = 20
	}

	orders, err := s.repo.ListByOwner(ctx, ownerUserID, p)
	if err != nil {
		return orderdomain.DashboardData{}, nil, err
	}

	pageInfo, orders := pagination.BuildCursorPageInfo(orders, p.PageSize, func(o *orderdomain.Order) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        strconv.FormatInt(int64(o.ID), 10),
			CreatedAt: o.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
		})
		return token
	})

	entries := make([]orderdomain.DashboardEntry, 0, len(orders))
	for _, order := range orders {
		ids, err := s.repo.DocumentIDs(ctx, order.ID)
		if err != nil {
			return orderdomain.DashboardData{}, nil, err
		}
		entries = append(entries, orderdomain.DashboardEntry{Order: *order, DocumentIDs: ids})
	}

	docs, err := s.docs.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return orderdomain.DashboardData{}, nil, err
	}

	return orderdomain.DashboardData{Documents: docs, Orders: entries}, pageInfo, nil
}

// HandlePaymentEvent applies one provider notification. Replays of an
// already-recorded event ID return the current order unchanged.
func (s *Service) HandlePaymentEvent(ctx context.Context, event orderdomain.PaymentEvent) (orderdomain.Order, error) {
	if err := event.Validate(); err != nil {
		return orderdomain.Order{}, err
	}

	order, err := s.repo.GetByReference(ctx, event.OrderReference)
	if err != nil {
		return orderdomain.Order{}, err
	}
	if order == nil {
		return orderdomain.Order{}, orderdomain.ErrNotFound
	}

	created, err := s.repo.RecordEvent(ctx, &orderdomain.PaymentEventRecord{
		ID:         s.genID.Generate(),
		EventID:    event.EventID,
		OrderID:    order.ID,
		Status:     event.Status,
		ReceivedAt: s.clock.Now(),
	})
	if err != nil {
		return orderdomain.Order{}, err
	}
	if !created {
		s.log.Debug("payment event replayed", zap.String("event_id", event.EventID))
		return *order, nil
	}

	if !order.Status.CanTransition(event.Status) {
		s.log.Warn("payment event rejected",
			zap.String("order_id", order.ID.String()),
			zap.String("from", string(order.Status)),
			zap.String("to", string(event.Status)),
		)
		return orderdomain.Order{}, orderdomain.ErrInvalidTransition
	}

	order.Status = event.Status
	if err := s.repo.Save(ctx, order); err != nil {
		return orderdomain.Order{}, err
	}

	s.metrics.RecordPaymentEvent(ctx, string(event.Status))
	s.log.Info("order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
	)
	return *order, nil
}
