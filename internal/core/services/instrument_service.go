package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/resource_bank/internal/apperrors"
	"github.com/SscSPs/resource_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/resource_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/resource_bank/internal/core/ports/services"
	"github.com/SscSPs/resource_bank/internal/core/pricing"
	"github.com/SscSPs/resource_bank/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// instrumentService runs the deposit and credit lifecycles.
type instrumentService struct {
	BaseService
	txm         portsrepo.TransactionManager
	instruments portsrepo.InstrumentReader
	clients     portsrepo.ClientReader
	engine      *pricing.Engine
	history     portssvc.PriceHistorySvc
	gameDay     time.Duration
}

// NewInstrumentService creates an InstrumentSvcFacade. gameDay is the wall-clock length
// of one term day.
func NewInstrumentService(
	txm portsrepo.TransactionManager,
	instruments portsrepo.InstrumentReader,
	clients portsrepo.ClientReader,
	engine *pricing.Engine,
	history portssvc.PriceHistorySvc,
	gameDay time.Duration,
	opts ...Option,
) portssvc.InstrumentSvcFacade {
	if gameDay <= 0 {
		gameDay = accounting.DefaultMinutesPerGameDay * time.Minute
	}
	return &instrumentService{
		BaseService: newBaseService(opts),
		txm:         txm,
		instruments: instruments,
		clients:     clients,
		engine:      engine,
		history:     history,
		gameDay:     gameDay,
	}
}

var _ portssvc.InstrumentSvcFacade = (*instrumentService)(nil)

func validateTerms(amount decimal.Decimal, days int, rate decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if days < 1 || days > accounting.MaxTermDays {
		return fmt.Errorf("%w: days must be between 1 and %d", apperrors.ErrValidation, accounting.MaxTermDays)
	}
	if rate.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// termEnd is the maturity time of a term starting at now. The end must fall after now.
func (s *instrumentService) termEnd(now time.Time, days int) (time.Time, error) {
	end := accounting.MaturityTime(now, days, s.gameDay)
	if !end.After(now) {
		return time.Time{}, fmt.Errorf("%w: a %d day term does not end after it starts", apperrors.ErrValidation, days)
	}
	return end, nil
}

// --- Deposits ---

func (s *instrumentService) CreateDeposit(ctx context.Context, clientName string, amount decimal.Decimal, days int, rate decimal.Decimal) (*domain.Deposit, error) {
	if err := validateTerms(amount, days, rate); err != nil {
		return nil, err
	}

	var deposit *domain.Deposit
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury) error {
		client, err := tx.ClientForUpdate(ctx, clientName)
		if err != nil {
			return err
		}
		if !client.CanCover(amount) {
			return fmt.Errorf("%w: client %s holds %s, deposit needs %s", apperrors.ErrInsufficientFunds, client.Name, client.Balance, amount)
		}

		now := s.Now()
		payoutAt, err := s.termEnd(now, days)
		if err != nil {
			return err
		}
		deposit = &domain.Deposit{
			DepositID:      uuid.NewString(),
			ClientName:     client.Name,
			Amount:         amount,
			InterestRate:   rate,
			Days:           days,
			CreatedAt:      now,
			PayoutAt:       payoutAt,
			InterestEarned: accounting.AccruedInterest(amount, rate, days),
			Status:         domain.DepositActive,
			PaidOut:        decimal.Zero,
		}
		if err := tx.UpdateClientBalance(ctx, client.Name, client.Balance.Sub(amount), now); err != nil {
			return err
		}
		if err := tx.UpdateTreasuryBalance(ctx, treasury.Balance.Add(amount), now); err != nil {
			return err
		}
		if err := tx.SaveDeposit(ctx, *deposit); err != nil {
			return err
		}
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("create_deposit", err)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Deposit created",
		slog.String("deposit_id", deposit.DepositID),
		slog.String("client", clientName),
		slog.String("amount", amount.String()),
		slog.Time("payout_at", deposit.PayoutAt))
	s.recordSnapshot(ctx, s.history, snap)
	return deposit, nil
}

// payDeposit closes an active deposit, paying principal plus interest from the treasury.
func (s *instrumentService) payDeposit(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury, deposit *domain.Deposit, interest decimal.Decimal, status domain.DepositStatus, now time.Time) error {
	payout := deposit.Amount.Add(interest)
	if !treasury.CanCover(payout) {
		return fmt.Errorf("%w: treasury holds %s, deposit %s pays %s", apperrors.ErrInsufficientFunds, treasury.Balance, deposit.DepositID, payout)
	}
	client, err := tx.ClientForUpdate(ctx, deposit.ClientName)
	if err != nil {
		return err
	}
	if err := tx.UpdateTreasuryBalance(ctx, treasury.Balance.Sub(payout), now); err != nil {
		return err
	}
	if err := tx.UpdateClientBalance(ctx, client.Name, client.Balance.Add(payout), now); err != nil {
		return err
	}
	deposit.Status = status
	deposit.ClosedAt = &now
	deposit.PaidOut = payout
	return tx.UpdateDeposit(ctx, *deposit)
}

// ProcessMaturedDeposits settles each due deposit in its own unit of work.
func (s *instrumentService) ProcessMaturedDeposits(ctx context.Context) (*domain.DepositRunReport, error) {
	runAt := s.Now()
	due, err := s.instruments.ListDueDeposits(ctx, runAt)
	if err != nil {
		s.LogError(ctx, err, "Failed to list matured deposits")
		return nil, err
	}

	report := &domain.DepositRunReport{
		RunAt:     runAt,
		Processed: []domain.Deposit{},
		Failed:    []domain.InstrumentFailure{},
		TotalPaid: decimal.Zero,
	}
	for _, d := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var paid *domain.Deposit
		err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury) error {
			deposit, err := tx.DepositForUpdate(ctx, d.DepositID)
			if err != nil {
				return err
			}
			if !deposit.IsActive() {
				return nil
			}
			if err := s.payDeposit(ctx, tx, treasury, deposit, deposit.InterestEarned, domain.DepositMatured, s.Now()); err != nil {
				return err
			}
			paid = deposit
			return nil
		})
		s.observe("mature_deposit", err)
		if err != nil {
			s.Metrics.ObserveBatchFailure("deposit")
			s.LogError(ctx, err, "Failed to pay matured deposit", slog.String("deposit_id", d.DepositID), slog.String("client", d.ClientName))
			report.Failed = append(report.Failed, domain.InstrumentFailure{InstrumentID: d.DepositID, ClientName: d.ClientName, Reason: err.Error()})
			continue
		}
		if paid != nil {
			report.Processed = append(report.Processed, *paid)
			report.TotalPaid = report.TotalPaid.Add(paid.PaidOut)
		}
	}

	if len(report.Processed) > 0 || len(report.Failed) > 0 {
		s.LogInfo(ctx, "Matured deposits processed",
			slog.Int("paid", len(report.Processed)),
			slog.Int("failed", len(report.Failed)),
			slog.String("total_paid", report.TotalPaid.String()))
	}
	if len(report.Processed) > 0 && s.history != nil {
		if err := s.history.Snapshot(ctx); err != nil {
			s.LogError(ctx, err, "Failed to record price history after deposit run")
		}
	}
	return report, nil
}

// EarlyCloseDeposit pays principal plus interest prorated by elapsed term.
func (s *instrumentService) EarlyCloseDeposit(ctx context.Context, depositID string) (*domain.Deposit, error) {
	var closed *domain.Deposit
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury) error {
		deposit, err := tx.DepositForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if !deposit.IsActive() {
			return fmt.Errorf("%w: deposit %s is %s", apperrors.ErrInvalidState, depositID, deposit.Status)
		}
		now := s.Now()
		interest := accounting.ProratedInterest(deposit.InterestEarned, deposit.CreatedAt, deposit.PayoutAt, now)
		if err := s.payDeposit(ctx, tx, treasury, deposit, interest, domain.DepositEarlyClosed, now); err != nil {
			return err
		}
		closed = deposit
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("early_close_deposit", err)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Deposit closed early", slog.String("deposit_id", depositID), slog.String("paid_out", closed.PaidOut.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return closed, nil
}

func (s *instrumentService) ListDeposits(ctx context.Context, clientName string) ([]domain.Deposit, error) {
	if _, err := s.clients.FindClient(ctx, clientName); err != nil {
		return nil, err
	}
	return s.instruments.ListDepositsByClient(ctx, clientName)
}

func (s *instrumentService) GetDeposit(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return s.instruments.FindDeposit(ctx, depositID)
}

// --- Credits ---

func (s *instrumentService) CreateCredit(ctx context.Context, clientName string, amount decimal.Decimal, days int, rate decimal.Decimal) (*domain.Credit, error) {
	if err := validateTerms(amount, days, rate); err != nil {
		return nil, err
	}

	var credit *domain.Credit
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury) error {
		if !treasury.CanCover(amount) {
			return fmt.Errorf("%w: treasury holds %s, credit needs %s", apperrors.ErrInsufficientFunds, treasury.Balance, amount)
		}
		client, err := tx.ClientForUpdate(ctx, clientName)
		if err != nil {
			return err
		}

		now := s.Now()
		dueAt, err := s.termEnd(now, days)
		if err != nil {
			return err
		}
		credit = &domain.Credit{
			CreditID:     uuid.NewString(),
			ClientName:   client.Name,
			Amount:       amount,
			InterestRate: rate,
			Days:         days,
			CreatedAt:    now,
			DueAt:        dueAt,
			InterestOwed: accounting.AccruedInterest(amount, rate, days),
			Status:       domain.CreditActive,
			Repaid:       decimal.Zero,
		}
		if err := tx.UpdateTreasuryBalance(ctx, treasury.Balance.Sub(amount), now); err != nil {
			return err
		}
		if err := tx.UpdateClientBalance(ctx, client.Name, client.Balance.Add(amount), now); err != nil {
			return err
		}
		if err := tx.SaveCredit(ctx, *credit); err != nil {
			return err
		}
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("create_credit", err)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Credit created",
		slog.String("credit_id", credit.CreditID),
		slog.String("client", clientName),
		slog.String("amount", amount.String()),
		slog.Time("due_at", credit.DueAt))
	s.recordSnapshot(ctx, s.history, snap)
	return credit, nil
}

// ProcessOverdueCredits expires due credits. Nothing is collected from the client; the
// written-off principal and interest are reported and logged.
func (s *instrumentService) ProcessOverdueCredits(ctx context.Context) (*domain.CreditRunReport, error) {
	runAt := s.Now()
	due, err := s.instruments.ListDueCredits(ctx, runAt)
	if err != nil {
		s.LogError(ctx, err, "Failed to list overdue credits")
		return nil, err
	}

	report := &domain.CreditRunReport{
		RunAt:       runAt,
		Expired:     []domain.Credit{},
		Failed:      []domain.InstrumentFailure{},
		Uncollected: decimal.Zero,
	}
	for _, c := range due {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var expired *domain.Credit
		err := s.txm.RunInTx(ctx, func(ctx context.Context, tx portsrepo.SettlementTx) error {
			credit, err := tx.CreditForUpdate(ctx, c.CreditID)
			if err != nil {
				return err
			}
			if !credit.IsActive() {
				return nil
			}
			now := s.Now()
			credit.Status = domain.CreditExpired
			credit.ClosedAt = &now
			if err := tx.UpdateCredit(ctx, *credit); err != nil {
				return err
			}
			expired = credit
			return nil
		})
		s.observe("expire_credit", err)
		if err != nil {
			s.Metrics.ObserveBatchFailure("credit")
			s.LogError(ctx, err, "Failed to expire credit", slog.String("credit_id", c.CreditID), slog.String("client", c.ClientName))
			report.Failed = append(report.Failed, domain.InstrumentFailure{InstrumentID: c.CreditID, ClientName: c.ClientName, Reason: err.Error()})
			continue
		}
		if expired != nil {
			owed := expired.Amount.Add(expired.InterestOwed)
			s.LogWarn(ctx, "Credit expired without collection",
				slog.String("credit_id", expired.CreditID),
				slog.String("client", expired.ClientName),
				slog.String("uncollected", owed.String()))
			report.Expired = append(report.Expired, *expired)
			report.Uncollected = report.Uncollected.Add(owed)
		}
	}
	return report, nil
}

// EarlyRepayCredit collects principal plus prorated interest from the client.
func (s *instrumentService) EarlyRepayCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	var repaid *domain.Credit
	var snap *economySnapshot
	err := settle(ctx, s.txm, func(ctx context.Context, tx portsrepo.SettlementTx, treasury *domain.Treasury) error {
		credit, err := tx.CreditForUpdate(ctx, creditID)
		if err != nil {
			return err
		}
		if !credit.IsActive() {
			return fmt.Errorf("%w: credit %s is %s", apperrors.ErrInvalidState, creditID, credit.Status)
		}
		now := s.Now()
		interest := accounting.ProratedInterest(credit.InterestOwed, credit.CreatedAt, credit.DueAt, now)
		owed := credit.Amount.Add(interest)

		client, err := tx.ClientForUpdate(ctx, credit.ClientName)
		if err != nil {
			return err
		}
		if !client.CanCover(owed) {
			return fmt.Errorf("%w: client %s holds %s, repayment needs %s", apperrors.ErrInsufficientFunds, client.Name, client.Balance, owed)
		}
		if err := tx.UpdateClientBalance(ctx, client.Name, client.Balance.Sub(owed), now); err != nil {
			return err
		}
		if err := tx.UpdateTreasuryBalance(ctx, treasury.Balance.Add(owed), now); err != nil {
			return err
		}
		credit.Status = domain.CreditRepaid
		credit.ClosedAt = &now
		credit.Repaid = owed
		if err := tx.UpdateCredit(ctx, *credit); err != nil {
			return err
		}
		repaid = credit
		snap, err = captureSnapshot(ctx, tx, s.engine)
		return err
	})
	s.observe("early_repay_credit", err)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Credit repaid early", slog.String("credit_id", creditID), slog.String("repaid", repaid.Repaid.String()))
	s.recordSnapshot(ctx, s.history, snap)
	return repaid, nil
}

func (s *instrumentService) ListCredits(ctx context.Context, clientName string) ([]domain.Credit, error) {
	if _, err := s.clients.FindClient(ctx, clientName); err != nil {
		return nil, err
	}
	return s.instruments.ListCreditsByClient(ctx, clientName)
}

func (s *instrumentService) GetCredit(ctx context.Context, creditID string) (*domain.Credit, error) {
	return s.instruments.FindCredit(ctx, creditID)
}
