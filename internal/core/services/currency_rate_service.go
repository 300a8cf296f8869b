package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// currencyRateService stores per-company rates and converts foreign amounts.
type currencyRateService struct {
	BaseService
	rateRepo portsrepo.CurrencyRateRepositoryFacade
}

// NewCurrencyRateService creates a new currency rate service.
func NewCurrencyRateService(repo portsrepo.CurrencyRateRepositoryFacade, authorizer portssvc.CompanyAuthorizerSvc) portssvc.CurrencyRateSvcFacade {
	return &currencyRateService{
		BaseService: BaseService{CompanyAuthorizer: authorizer},
		rateRepo:    repo,
	}
}

var _ portssvc.CurrencyRateSvcFacade = (*currencyRateService)(nil)

// SetRate stores the current rate of a currency.
func (s *currencyRateService) SetRate(ctx context.Context, companyID string, req dto.SetCurrencyRateRequest, userID string) (*domain.CurrencyRate, error) {
	company, err := s.AuthorizeCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(req.CurrencyCode)
	if code == company.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: %s is the base currency", apperrors.ErrValidation, code)
	}
	if !req.Operator.IsValid() {
		return nil, fmt.Errorf("%w: unknown exchange operator %q", apperrors.ErrValidation, req.Operator)
	}

	var rate decimal.Decimal
	switch {
	case req.Rate != nil && req.DisplayRate == nil:
		if !req.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
		}
		rate = *req.Rate
	case req.DisplayRate != nil && req.Rate == nil:
		rate, err = accounting.RateFromDisplay(*req.DisplayRate, req.Operator)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: exactly one of rate or displayRate is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	effectiveAt := now
	if req.EffectiveAt != nil {
		effectiveAt = req.EffectiveAt.UTC()
	}

	stored := domain.CurrencyRate{
		CompanyID:    companyID,
		CurrencyCode: code,
		RateToBase:   rate,
		Operator:     req.Operator,
		EffectiveAt:  effectiveAt,
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	if err := s.rateRepo.SaveRate(ctx, stored); err != nil {
		s.LogError(ctx, err, "Failed to save currency rate", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to save rate for %s: %w", code, err)
	}

	s.LogInfo(ctx, "Currency rate saved",
		slog.String("currency_code", code),
		slog.String("operator", string(req.Operator)),
		slog.String("rate", rate.String()))
	return &stored, nil
}

// GetRate returns the stored rate of currencyCode.
func (s *currencyRateService) GetRate(ctx context.Context, companyID string, currencyCode string) (*domain.CurrencyRate, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.findRate(ctx, companyID, strings.ToUpper(currencyCode))
}

func (s *currencyRateService) findRate(ctx context.Context, companyID string, code string) (*domain.CurrencyRate, error) {
	rate, err := s.rateRepo.FindRate(ctx, companyID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no rate for %s", apperrors.ErrRateMissing, code)
		}
		s.LogError(ctx, err, "Failed to load currency rate", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to load rate for %s: %w", code, err)
	}
	return rate, nil
}

// ListRates lists every stored rate of the company.
func (s *currencyRateService) ListRates(ctx context.Context, companyID string) ([]domain.CurrencyRate, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}
	rates, err := s.rateRepo.ListRates(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currency rates", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	return rates, nil
}

// ConvertToBase converts amount from currencyCode into the company's base
// currency. Base currency amounts are returned unchanged.
func (s *currencyRateService) ConvertToBase(ctx context.Context, companyID string, currencyCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	company, err := s.AuthorizeCompany(ctx, companyID)
	if err != nil {
		return decimal.Zero, err
	}

	code := strings.ToUpper(currencyCode)
	if code == "" || code == company.BaseCurrencyCode {
		return amount, nil
	}

	rate, err := s.findRate(ctx, companyID, code)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.ToBase(amount, rate.RateToBase, rate.Operator)
}
