package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/paydocs/internal/clock"
	appconfig "github.com/smallbiznis/paydocs/internal/config"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	"github.com/smallbiznis/paydocs/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/paydocs/internal/order/domain"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	"github.com/smallbiznis/paydocs/internal/providers/pdf"
	sessiondomain "github.com/smallbiznis/paydocs/internal/session/domain"
	ytddomain "github.com/smallbiznis/paydocs/internal/ytd/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	cfg       appconfig.Config
	repo      sessiondomain.Repository
	payroll   payrolldomain.Service
	ytd       ytddomain.Service
	assembler documentdomain.Assembler
	docs      documentdomain.Repository
	orders    orderdomain.Service
	renderer  pdf.Renderer
	metrics   *metrics.Metrics
}

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Cfg       appconfig.Config
	Repo      sessiondomain.Repository
	Payroll   payrolldomain.Service
	Ytd       ytddomain.Service
	Assembler documentdomain.Assembler
	Docs      documentdomain.Repository
	Orders    orderdomain.Service
	Renderer  pdf.Renderer
	Metrics   *metrics.Metrics
}

func NewService(p ServiceParam) sessiondomain.Service {
	return &Service{
		log:       p.Log.Named("session.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		cfg:       p.Cfg,
		repo:      p.Repo,
		payroll:   p.Payroll,
		ytd:       p.Ytd,
		assembler: p.Assembler,
		docs:      p.Docs,
		orders:    p.Orders,
		renderer:  p.Renderer,
		metrics:   p.Metrics,
	}
}

func (s *Service) Start(ctx context.Context, req sessiondomain.StartRequest) (sessiondomain.GenerationSession, error) {
	if req.OwnerUserID == "" || !req.DocumentType.Valid() {
		return sessiondomain.GenerationSession{}, payrolldomain.ErrInvalidInput
	}

	raw, err := json.Marshal(req.Inputs)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	session := sessiondomain.GenerationSession{
		ID:           s.genID.Generate(),
		OwnerUserID:  req.OwnerUserID,
		DocumentType: req.DocumentType,
		Status:       sessiondomain.SessionStatusDraft,
		Inputs:       raw,
	}
	if err := s.repo.Save(ctx, &session); err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	s.log.Info("session started",
		zap.String("session_id", session.ID.String()),
		zap.String("document_type", string(session.DocumentType)),
	)
	return session, nil
}

func (s *Service) Get(ctx context.Context, ownerUserID string, id snowflake.ID) (sessiondomain.GenerationSession, error) {
	session, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	return *session, nil
}

func (s *Service) List(ctx context.Context, ownerUserID string) ([]sessiondomain.GenerationSession, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// UpdateInputs replaces the inputs wholesale. Any session that already
// validated or previewed falls back to draft; the stale derived state is
// rebuilt on the next validate.
func (s *Service) UpdateInputs(ctx context.Context, ownerUserID string, id snowflake.ID, inputs sessiondomain.SessionInputs) (sessiondomain.GenerationSession, error) {
	session, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if session.Status.Terminal() || session.Status == sessiondomain.SessionStatusOrdered {
		return sessiondomain.GenerationSession{}, sessiondomain.ErrInvalidTransition
	}

	raw, err := json.Marshal(inputs)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	session.Inputs = raw
	if session.Status != sessiondomain.SessionStatusDraft {
		session.Status = sessiondomain.SessionStatusDraft
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	return *session, nil
}

// Validate runs the full calculation against the current inputs without
// producing a document. Calculation errors surface to the caller and
// leave the session in draft.
func (s *Service) Validate(ctx context.Context, ownerUserID string, id snowflake.ID) (sessiondomain.GenerationSession, error) {
	session, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if session.Status != sessiondomain.SessionStatusDraft {
		return sessiondomain.GenerationSession{}, sessiondomain.ErrInvalidTransition
	}

	inputs, err := decodeInputs(session)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if _, err := s.assemble(ctx, session, inputs); err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	session.Status = sessiondomain.SessionStatusValidated
	if err := s.repo.Save(ctx, session); err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	return *session, nil
}

// Preview assembles the document payload, stores it, and renders a
// preview artifact. The stored payload is what every later stage serves;
// ordering freezes it.
func (s *Service) Preview(ctx context.Context, ownerUserID string, id snowflake.ID) (sessiondomain.GenerationSession, error) {
	session, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if session.Status != sessiondomain.SessionStatusValidated {
		return sessiondomain.GenerationSession{}, sessiondomain.ErrInvalidTransition
	}

	inputs, err := decodeInputs(session)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	payload, err := s.assemble(ctx, session, inputs)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	doc := &documentdomain.GeneratedDocument{
		ID:          s.genID.Generate(),
		OwnerUserID: session.OwnerUserID,
		Type:        session.DocumentType,
		Status:      documentdomain.DocumentStatusPreviewed,
		Payload:     datatypes.JSON(payload),
	}
	if session.DocumentID != nil {
		existing, err := s.docs.Get(ctx, *session.DocumentID)
		if err != nil {
			return sessiondomain.GenerationSession{}, err
		}
		if existing != nil {
			doc.ID = existing.ID
			doc.CreatedAt = existing.CreatedAt
		}
	}

	uri, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	doc.ArtifactURI = &uri

	if err := s.docs.Save(ctx, doc); err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	session.DocumentID = &doc.ID
	session.Status = sessiondomain.SessionStatusPreviewed
	if err := s.repo.Save(ctx, session); err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	s.metrics.RecordDocumentAssembled(ctx, string(session.DocumentType))
	s.log.Info("session previewed",
		zap.String("session_id", session.ID.String()),
		zap.String("document_id", doc.ID.String()),
	)
	return *session, nil
}

// ConfirmOrder binds a paid order to the session and freezes the
// document. An unpaid order, or one belonging to another user, is a
// payment mismatch. Paystub confirmation is also the point where the
// year-to-date totals move forward.
func (s *Service) ConfirmOrder(ctx context.Context, ownerUserID string, id, orderID snowflake.ID) (sessiondomain.GenerationSession, error) {
	session, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if session.Status != sessiondomain.SessionStatusPreviewed || session.DocumentID == nil {
		return sessiondomain.GenerationSession{}, sessiondomain.ErrInvalidTransition
	}

	order, err := s.orders.Get(ctx, ownerUserID, orderID)
	if err != nil {
		if errors.Is(err, orderdomain.ErrNotFound) {
			return sessiondomain.GenerationSession{}, sessiondomain.ErrPaymentMismatch
		}
		return sessiondomain.GenerationSession{}, err
	}
	if order.Status != orderdomain.OrderStatusPaid {
		return sessiondomain.GenerationSession{}, sessiondomain.ErrPaymentMismatch
	}

	inputs, err := decodeInputs(session)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	if err := s.orders.LinkDocument(ctx, ownerUserID, order.ID, *session.DocumentID); err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	doc, err := s.docs.Get(ctx, *session.DocumentID)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if doc == nil {
		return sessiondomain.GenerationSession{}, documentdomain.ErrNotFound
	}
	doc.Status = documentdomain.DocumentStatusOrdered
	if err := s.docs.Save(ctx, doc); err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	// The link and document writes above are idempotent, so a confirm
	// that fails past this point can be retried without double-counting.
	if session.DocumentType == documentdomain.DocumentTypePaystub {
		if err := s.advanceYtd(ctx, inputs); err != nil {
			return sessiondomain.GenerationSession{}, err
		}
	}

	session.OrderID = &order.ID
	session.Status = sessiondomain.SessionStatusOrdered
	if err := s.repo.Save(ctx, session); err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	s.log.Info("session ordered",
		zap.String("session_id", session.ID.String()),
		zap.String("order_id", order.ID.String()),
	)
	return *session, nil
}

// Deliver renders the final artifact with a bounded number of attempts.
// Exhausting the budget fails the session for good.
func (s *Service) Deliver(ctx context.Context, ownerUserID string, id snowflake.ID) (sessiondomain.GenerationSession, error) {
	session, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if session.Status != sessiondomain.SessionStatusOrdered || session.DocumentID == nil {
		return sessiondomain.GenerationSession{}, sessiondomain.ErrInvalidTransition
	}

	doc, err := s.docs.Get(ctx, *session.DocumentID)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if doc == nil {
		return sessiondomain.GenerationSession{}, documentdomain.ErrNotFound
	}

	maxAttempts := s.cfg.DeliveryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var renderErr error
	for session.DeliveryAttempts < maxAttempts {
		session.DeliveryAttempts++

		var uri string
		uri, renderErr = s.renderer.Render(ctx, doc)
		if renderErr == nil {
			now := s.clock.Now()
			doc.ArtifactURI = &uri
			doc.Status = documentdomain.DocumentStatusDelivered
			doc.DeliveredAt = &now
			if err := s.docs.Save(ctx, doc); err != nil {
				return sessiondomain.GenerationSession{}, err
			}

			session.Status = sessiondomain.SessionStatusDelivered
			if err := s.repo.Save(ctx, session); err != nil {
				return sessiondomain.GenerationSession{}, err
			}

			s.metrics.RecordDelivery(ctx, "delivered")
			s.log.Info("session delivered",
				zap.String("session_id", session.ID.String()),
				zap.Int("attempts", session.DeliveryAttempts),
			)
			return *session, nil
		}

		s.log.Warn("delivery attempt failed",
			zap.String("session_id", session.ID.String()),
			zap.Int("attempt", session.DeliveryAttempts),
			zap.Error(renderErr),
		)
	}

	reason := sessiondomain.ErrDeliveryFailed.Error()
	if renderErr != nil {
		reason = renderErr.Error()
	}
	session.Status = sessiondomain.SessionStatusFailed
	session.FailureReason = &reason
	if err := s.repo.Save(ctx, session); err != nil {
		return sessiondomain.GenerationSession{}, err
	}

	s.metrics.RecordDelivery(ctx, "failed")
	return *session, sessiondomain.ErrDeliveryFailed
}

func (s *Service) Cancel(ctx context.Context, ownerUserID string, id snowflake.ID) (sessiondomain.GenerationSession, error) {
	session, err := s.load(ctx, ownerUserID, id)
	if err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	if !session.Status.CanTransition(sessiondomain.SessionStatusCancelled) {
		return sessiondomain.GenerationSession{}, sessiondomain.ErrInvalidTransition
	}

	session.Status = sessiondomain.SessionStatusCancelled
	if err := s.repo.Save(ctx, session); err != nil {
		return sessiondomain.GenerationSession{}, err
	}
	return *session, nil
}

func (s *Service) load(ctx context.Context, ownerUserID string, id snowflake.ID) (*sessiondomain.GenerationSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil || session.OwnerUserID != ownerUserID {
		return nil, sessiondomain.ErrNotFound
	}
	return session, nil
}

// assemble builds the payload for the session's document type. It is
// used both to validate inputs and to produce the preview payload; it
// never persists anything.
func (s *Service) assemble(ctx context.Context, session *sessiondomain.GenerationSession, inputs sessiondomain.SessionInputs) (json.RawMessage, error) {
	switch session.DocumentType {
	case documentdomain.DocumentTypePaystub:
		payload, err := s.assemblePaystub(ctx, inputs)
		if err != nil {
			return nil, err
		}
		return json.Marshal(payload)

	case documentdomain.DocumentTypeW2:
		totals, err := s.ytdTotals(ctx, inputs)
		if err != nil {
			return nil, err
		}
		payload, err := s.assembler.AssembleW2(ctx, documentdomain.W2Inputs{
			Employee: inputs.Employee,
			Employer: inputs.Employer,
			Totals:   totals,
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(payload)

	case documentdomain.DocumentType1099Misc:
		payload, err := s.assembler.Assemble1099(ctx, documentdomain.Form1099Inputs{
			Payer:                inputs.Employer,
			Recipient:            inputs.Employee,
			Year:                 inputs.Year,
			NonemployeeCompCents: inputs.NonemployeeCompCents,
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(payload)

	case documentdomain.DocumentTypeTaxReturn:
		payload, err := s.assembleTaxReturn(ctx, inputs)
		if err != nil {
			return nil, err
		}
		return json.Marshal(payload)
	}
	return nil, documentdomain.ErrInvalidDocumentType
}

// assemblePaystub computes withholding for the period and folds it into
// prospective totals so the stub shows year-to-date figures including
// this period. Nothing is saved; ConfirmOrder persists the advance.
func (s *Service) assemblePaystub(ctx context.Context, inputs sessiondomain.SessionInputs) (documentdomain.PaystubPayload, error) {
	if inputs.Period == nil || inputs.Gross == nil {
		return documentdomain.PaystubPayload{}, documentdomain.ErrIncompleteInputs
	}

	result, prior, err := s.compute(ctx, inputs)
	if err != nil {
		return documentdomain.PaystubPayload{}, err
	}

	var prospective ytddomain.YtdTotals
	if inputs.StartNewYear {
		prospective = ytddomain.Seed(inputs.Employee.TaxID, inputs.Employer.EIN, result, *inputs.Period)
	} else {
		prospective, err = ytddomain.Advance(prior, result, *inputs.Period)
		if err != nil {
			return documentdomain.PaystubPayload{}, err
		}
	}

	return s.assembler.AssemblePaystub(ctx, documentdomain.PaystubInputs{
		Employee: inputs.Employee,
		Employer: inputs.Employer,
		Period:   *inputs.Period,
		Gross:    *inputs.Gross,
		Result:   result,
		Totals:   prospective,
	})
}

func (s *Service) assembleTaxReturn(ctx context.Context, inputs sessiondomain.SessionInputs) (documentdomain.TaxReturnPayload, error) {
	req := documentdomain.TaxReturnInputs{
		Taxpayer:        inputs.Employee,
		Year:            inputs.Year,
		DeductionsCents: inputs.DeductionsCents,
		CreditsCents:    inputs.CreditsCents,
	}

	totals, err := s.ytdTotals(ctx, inputs)
	if err != nil && !errors.Is(err, documentdomain.ErrIncompleteInputs) {
		return documentdomain.TaxReturnPayload{}, err
	}
	if err == nil {
		w2, err := s.assembler.AssembleW2(ctx, documentdomain.W2Inputs{
			Employee: inputs.Employee,
			Employer: inputs.Employer,
			Totals:   totals,
		})
		if err != nil {
			return documentdomain.TaxReturnPayload{}, err
		}
		req.W2s = append(req.W2s, w2)
	}

	if inputs.NonemployeeCompCents > 0 {
		f1099, err := s.assembler.Assemble1099(ctx, documentdomain.Form1099Inputs{
			Payer:                inputs.Employer,
			Recipient:            inputs.Employee,
			Year:                 inputs.Year,
			NonemployeeCompCents: inputs.NonemployeeCompCents,
		})
		if err != nil {
			return documentdomain.TaxReturnPayload{}, err
		}
		req.Form1099s = append(req.Form1099s, f1099)
	}

	return s.assembler.AssembleTaxReturn(ctx, req)
}

func (s *Service) compute(ctx context.Context, inputs sessiondomain.SessionInputs) (payrolldomain.WithholdingResult, ytddomain.YtdTotals, error) {
	prior := ytddomain.YtdTotals{}
	if !inputs.StartNewYear {
		stored, err := s.ytd.Get(ctx, inputs.Employee.TaxID, inputs.Employer.EIN, inputs.Period.PayDate.Year())
		switch {
		case err == nil:
			prior = stored
		case errors.Is(err, ytddomain.ErrNotFound):
			// Totals stored under another year mean this period crosses
			// a boundary the caller has not acknowledged.
			if _, lerr := s.ytd.Latest(ctx, inputs.Employee.TaxID, inputs.Employer.EIN); lerr == nil {
				return payrolldomain.WithholdingResult{}, ytddomain.YtdTotals{}, ytddomain.ErrYearBoundaryCrossed
			} else if !errors.Is(lerr, ytddomain.ErrNotFound) {
				return payrolldomain.WithholdingResult{}, ytddomain.YtdTotals{}, lerr
			}
		default:
			return payrolldomain.WithholdingResult{}, ytddomain.YtdTotals{}, err
		}
	}

	result, err := s.payroll.Compute(ctx, payrolldomain.ComputeRequest{
		Gross:           *inputs.Gross,
		Employee:        inputs.Employee,
		Employer:        inputs.Employer,
		Period:          *inputs.Period,
		OtherDeductions: inputs.OtherDeductions,
		PriorYtd:        prior.PriorTotals(),
	})
	if err != nil {
		return payrolldomain.WithholdingResult{}, ytddomain.YtdTotals{}, err
	}
	return result, prior, nil
}

func (s *Service) advanceYtd(ctx context.Context, inputs sessiondomain.SessionInputs) error {
	if inputs.Period == nil || inputs.Gross == nil {
		return documentdomain.ErrIncompleteInputs
	}

	// A retried confirm must not double-count the period. The pay date
	// identifies it within the key: matching dates mean this advance
	// already landed.
	stored, err := s.ytd.Get(ctx, inputs.Employee.TaxID, inputs.Employer.EIN, inputs.Period.PayDate.Year())
	if err == nil && stored.LastPayDate.Equal(inputs.Period.PayDate) {
		return nil
	}
	if err != nil && !errors.Is(err, ytddomain.ErrNotFound) {
		return err
	}

	result, _, err := s.compute(ctx, inputs)
	if err != nil {
		return err
	}

	if inputs.StartNewYear {
		_, err = s.ytd.StartYear(ctx, inputs.Employee.TaxID, inputs.Employer.EIN, result, *inputs.Period)
		return err
	}
	_, err = s.ytd.Advance(ctx, inputs.Employee.TaxID, inputs.Employer.EIN, result, *inputs.Period)
	return err
}

func (s *Service) ytdTotals(ctx context.Context, inputs sessiondomain.SessionInputs) (ytddomain.YtdTotals, error) {
	if inputs.Year == 0 {
		return ytddomain.YtdTotals{}, documentdomain.ErrIncompleteInputs
	}
	totals, err := s.ytd.Get(ctx, inputs.Employee.TaxID, inputs.Employer.EIN, inputs.Year)
	if err != nil {
		if errors.Is(err, ytddomain.ErrNotFound) {
			return ytddomain.YtdTotals{}, documentdomain.ErrIncompleteInputs
		}
		return ytddomain.YtdTotals{}, err
	}
	return totals, nil
}

func decodeInputs(session *sessiondomain.GenerationSession) (sessiondomain.SessionInputs, error) {
	var inputs sessiondomain.SessionInputs
	if err := json.Unmarshal(session.Inputs, &inputs); err != nil {
		return sessiondomain.SessionInputs{}, err
	}
	return inputs, nil
}
