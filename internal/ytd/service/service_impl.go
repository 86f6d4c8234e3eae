package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	ytddomain "github.com/smallbiznis/paydocs/internal/ytd/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  ytddomain.Repository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  ytddomain.Repository
}

func NewService(p ServiceParam) ytddomain.Service {
	return &Service{
		log:   p.Log.Named("ytd.service"),
		genID: p.GenID,
		repo:  p.Repo,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) Get(ctx context.Context, employeeTaxID, employerEIN string, year int) (ytddomain.YtdTotals, error) {
	totals, err := s.repo.GetByKey(ctx, employeeTaxID, employerEIN, year)
	if err != nil {
		return ytddomain.YtdTotals{}, err
	}
	if totals == nil {
		return ytddomain.YtdTotals{}, ytddomain.ErrNotFound
	}
	return *totals, nil
}

// Latest returns the key's most recent stored year.
func (s *Service) Latest(ctx context.Context, employeeTaxID, employerEIN string) (ytddomain.YtdTotals, error) {
	totals, err := s.repo.LatestByKey(ctx, employeeTaxID, employerEIN)
	if err != nil {
		return ytddomain.YtdTotals{}, err
	}
	if totals == nil {
		return ytddomain.YtdTotals{}, ytddomain.ErrNotFound
	}
	return *totals, nil
}

// Advance folds one period into the stored totals. Calls for the same
// key are serialized so the strictly-increasing pay-date invariant holds
// under concurrent sessions.
func (s *Service) Advance(ctx context.Context, employeeTaxID, employerEIN string, result payrolldomain.WithholdingResult, period payrolldomain.PayPeriod) (ytddomain.YtdTotals, error) {
	year := period.PayDate.Year()

	lock := s.keyLock(employeeTaxID, employerEIN, year)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.repo.GetByKey(ctx, employeeTaxID, employerEIN, year)
	if err != nil {
		return ytddomain.YtdTotals{}, err
	}

	// A key with totals stored under another year never rolls over
	// silently; the caller acknowledges the boundary through StartYear.
	if stored == nil {
		latest, err := s.repo.LatestByKey(ctx, employeeTaxID, employerEIN)
		if err != nil {
			return ytddomain.YtdTotals{}, err
		}
		if latest != nil {
			s.log.Warn("ytd advance crossed a year boundary",
				zap.String("employee_tax_id", employeeTaxID),
				zap.String("employer_ein", employerEIN),
				zap.Int("stored_year", latest.Year),
				zap.Int("period_year", year),
			)
			return ytddomain.YtdTotals{}, ytddomain.ErrYearBoundaryCrossed
		}
	}

	prior := ytddomain.YtdTotals{}
	if stored != nil {
		prior = *stored
	}

	next, err := ytddomain.Advance(prior, result, period)
	if err != nil {
		s.log.Warn("ytd advance rejected",
			zap.String("employee_tax_id", employeeTaxID),
			zap.String("employer_ein", employerEIN),
			zap.Error(err),
		)
		return ytddomain.YtdTotals{}, err
	}

	next.EmployeeTaxID = employeeTaxID
	next.EmployerEIN = employerEIN
	if next.ID == 0 {
		next.ID = s.genID.Generate()
	}

	if err := s.repo.Save(ctx, &next); err != nil {
		return ytddomain.YtdTotals{}, err
	}
	return next, nil
}

// StartYear seeds fresh totals after the caller has acknowledged a year
// boundary. It refuses to overwrite totals that already exist for the
// new year.
func (s *Service) StartYear(ctx context.Context, employeeTaxID, employerEIN string, result payrolldomain.WithholdingResult, period payrolldomain.PayPeriod) (ytddomain.YtdTotals, error) {
	year := period.PayDate.Year()

	lock := s.keyLock(employeeTaxID, employerEIN, year)
	lock.Lock()
	defer lock.Unlock()

	stored, err := s.repo.GetByKey(ctx, employeeTaxID, employerEIN, year)
	if err != nil {
		return ytddomain.YtdTotals{}, err
	}
	if stored != nil {
		return ytddomain.YtdTotals{}, ytddomain.ErrOutOfOrderPeriod
	}

	next := ytddomain.Seed(employeeTaxID, employerEIN, result, period)
	next.ID = s.genID.Generate()

	if err := s.repo.Save(ctx, &next); err != nil {
		return ytddomain.YtdTotals{}, err
	}
	return next, nil
}

func (s *Service) keyLock(employeeTaxID, employerEIN string, year int) *sync.Mutex {
	key := fmt.Sprintf("%s|%s|%d", employeeTaxID, employerEIN, year)

	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}
