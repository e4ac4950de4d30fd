// Package simulator owns the financing table for the lifetime of a process
// and gates simulations on it having been loaded.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iwvelando/mortgage-simulator/internal/source"
	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	"github.com/iwvelando/mortgage-simulator/pkg/financing"
	"go.uber.org/zap"
)

// ErrAlreadyLoaded is returned when a table load is attempted after one has
// succeeded. Tables are not refreshed mid-session.
var ErrAlreadyLoaded = errors.New("financing table already loaded")

// Status reports the table load state.
type Status struct {
	Ready     bool       `json:"ready"`
	Loading   bool       `json:"loading"`
	Rows      int        `json:"rows"`
	Source    string     `json:"source,omitempty"`
	LoadedAt  *time.Time `json:"loadedAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
}

// Simulator runs simulations against a table loaded once.
type Simulator struct {
	logger *zap.Logger
	table  atomic.Pointer[brackets.Table]

	loadMu sync.Mutex

	stateMu  sync.RWMutex
	loading  bool
	source   string
	loadedAt time.Time
	lastErr  error
	warnings []string
}

// New creates a simulator with no table.
func New(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{logger: logger}
}

// Load fetches the rows from src and publishes them as the table. A failed
// load leaves the simulator not ready and may be retried by the caller.
func (s *Simulator) Load(ctx context.Context, src source.Source) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.table.Load() != nil {
		return ErrAlreadyLoaded
	}

	s.setState(func() {
		s.loading = true
		s.source = src.Describe()
	})

	start := time.Now()
	rows, err := src.Load(ctx)
	if err != nil {
		s.setState(func() {
			s.loading = false
			s.lastErr = err
		})
		s.logger.Error("failed to load financing table",
			zap.String("op", "simulator.Load"),
			zap.String("source", src.Describe()),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", financing.ErrTableNotLoaded, err)
	}

	table := brackets.NewTable(rows)
	warnings := table.Validate()
	for _, warning := range warnings {
		s.logger.Warn("Financing table warning: "+warning,
			zap.String("op", "simulator.Load"),
		)
	}

	s.setState(func() {
		s.loading = false
		s.lastErr = nil
		s.loadedAt = time.Now()
		s.warnings = warnings
	})
	s.table.Store(table)

	s.logger.Info("financing table loaded",
		zap.String("op", "simulator.Load"),
		zap.String("source", src.Describe()),
		zap.Int("rows", table.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// LoadAsync runs Load in the background. The returned channel receives the
// outcome and is then closed.
func (s *Simulator) LoadAsync(ctx context.Context, src source.Source) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.Load(ctx, src)
	}()
	return done
}

// Ready reports whether a table has been loaded.
func (s *Simulator) Ready() bool {
	return s.table.Load() != nil
}

// Table returns the loaded table, or nil before a successful load.
func (s *Simulator) Table() *brackets.Table {
	return s.table.Load()
}

// Status returns a snapshot of the load state.
func (s *Simulator) Status() Status {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	status := Status{
		Loading:  s.loading,
		Source:   s.source,
		Warnings: append([]string(nil), s.warnings...),
	}
	if table := s.table.Load(); table != nil {
		status.Ready = true
		status.Rows = table.Len()
		loadedAt := s.loadedAt
		status.LoadedAt = &loadedAt
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	return status
}

// Simulate validates the input and runs it against the loaded table.
func (s *Simulator) Simulate(in financing.Input) (financing.Result, error) {
	if err := financing.Validate(in); err != nil {
		return financing.Result{}, err
	}

	table := s.table.Load()
	if table == nil {
		return financing.Result{}, financing.ErrTableNotLoaded
	}

	result, err := financing.Simulate(table, in)
	if err != nil {
		return financing.Result{}, err
	}

	s.logger.Debug("simulation computed",
		zap.String("op", "simulator.Simulate"),
		zap.Float64("incomeCeiling", result.Bracket.IncomeCeiling),
		zap.Float64("financedAmount", result.FinancedAmount),
		zap.Float64("monthlyPayment", result.MonthlyPayment),
	)
	if result.Advisory != nil {
		s.logger.Info(result.Advisory.Message,
			zap.String("op", "simulator.Simulate"),
			zap.Float64("incomeRatio", result.IncomeRatio),
		)
	}
	return result, nil
}

func (s *Simulator) setState(update func()) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	update()
}
