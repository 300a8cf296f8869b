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
	"github.com/google/uuid"
)

const defaultAccountPageSize = 50

// accountService implements the chart-of-accounts registry.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	roleDefaults map[domain.AccountRole]string
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountCompanyAuthorizer adds the company authorizer dependency
func WithAccountCompanyAuthorizer(authorizer portssvc.CompanyAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.CompanyAuthorizer = authorizer
	}
}

// WithRoleDefaults sets the account code tried for a role when a company has
// no stored mapping.
func WithRoleDefaults(defaults map[domain.AccountRole]string) AccountServiceOption {
	return func(s *accountService) {
		for role, code := range defaults {
			if code != "" {
				s.roleDefaults[role] = code
			}
		}
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo:  repo,
		roleDefaults: make(map[domain.AccountRole]string),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account in the company's chart.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	company, err := s.AuthorizeCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	accountType := domain.AccountType(strings.ToUpper(string(req.AccountType)))
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	currencyCode := strings.ToUpper(req.CurrencyCode)
	if currencyCode == "" {
		currencyCode = company.BaseCurrencyCode
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.GetAccountByID(ctx, companyID, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		if parent.AccountType != accountType {
			return nil, fmt.Errorf("%w: parent account %s is %s, not %s", apperrors.ErrValidation, parent.Code, parent.AccountType, accountType)
		}
		parentID = parent.AccountID
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		Code:            code,
		Name:            req.Name,
		AccountType:     accountType,
		CurrencyCode:    currencyCode,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(userID, time.Now().UTC()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("company_id", companyID),
			slog.String("code", code))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", code))
	return &account, nil
}

// GetAccountByID retrieves an account, hiding accounts of other companies.
func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.CompanyID != companyID {
		s.LogWarn(ctx, "Account belongs to a different company",
			slog.String("account_id", accountID),
			slog.String("company_id", companyID))
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return account, nil
}

// GetAccountByIDs retrieves accounts keyed by ID. Accounts of other companies are dropped.
func (s *accountService) GetAccountByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts", slog.Int("count", len(accountIDs)))
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	for id, acc := range accounts {
		if acc.CompanyID != companyID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves a page of the company's accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultAccountPageSize
	}
	if offset < 0 {
		offset = 0
	}

	accounts, err := s.accountRepo.ListAccountsByCompany(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// FindByCode resolves an account by its code.
func (s *accountService) FindByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.findByCode(ctx, companyID, code)
}

func (s *accountService) findByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrAccountNotFound, code)
		}
		s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return account, nil
}

// FindWellKnown resolves the account playing role. The stored mapping (or the
// configured default code) wins; otherwise the first active account matching
// the role's name keywords, then its type, is chosen and persisted as the mapping.
func (s *accountService) FindWellKnown(ctx context.Context, companyID string, role domain.AccountRole) (*domain.Account, error) {
	hint, ok := role.Hint()
	if !ok {
		return nil, fmt.Errorf("%w: unknown account role %q", apperrors.ErrValidation, role)
	}
	if _, err := s.AuthorizeCompany(ctx, companyID); err != nil {
		return nil, err
	}

	code, mapped, err := s.mappedCode(ctx, companyID, role)
	if err != nil {
		return nil, err
	}
	if code != "" {
		account, err := s.findByCode(ctx, companyID, code)
		switch {
		case err == nil && account.IsActive:
			return account, nil
		case err == nil, errors.Is(err, apperrors.ErrAccountNotFound):
			if mapped {
				s.LogWarn(ctx, "Mapped account is missing or inactive, falling back to heuristics",
					slog.String("role", string(role)),
					slog.String("code", code))
			}
		default:
			return nil, err
		}
	}

	candidates, err := s.accountRepo.ListActiveAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for role resolution", slog.String("role", string(role)))
		return nil, fmt.Errorf("failed to resolve %s account: %w", role, err)
	}

	account, strategy := pickByHint(candidates, hint)
	if account == nil {
		return nil, fmt.Errorf("%w: no account for role %s", apperrors.ErrAccountNotFound, role)
	}

	s.LogWarn(ctx, "Well-known account resolved heuristically",
		slog.String("role", string(role)),
		slog.String("strategy", strategy),
		slog.String("code", account.Code),
		slog.String("name", account.Name))

	mapping := domain.AccountRoleMapping{
		CompanyID:   companyID,
		Role:        role,
		AccountCode: account.Code,
		AuditFields: domain.NewAuditFields(bootstrapUserID(ctx), time.Now().UTC()),
	}
	if err := s.accountRepo.SaveRoleMapping(ctx, mapping); err != nil {
		s.LogError(ctx, err, "Failed to persist heuristic role mapping", slog.String("role", string(role)))
	}
	return account, nil
}

// mappedCode returns the stored code for role, or the configured default. The
// boolean reports whether the code came from a stored mapping.
func (s *accountService) mappedCode(ctx context.Context, companyID string, role domain.AccountRole) (string, bool, error) {
	mapping, err := s.accountRepo.FindRoleMapping(ctx, companyID, role)
	if err == nil {
		return mapping.AccountCode, true, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to load role mapping", slog.String("role", string(role)))
		return "", false, fmt.Errorf("failed to load %s mapping: %w", role, err)
	}
	return s.roleDefaults[role], false, nil
}

// pickByHint expects candidates ordered by code.
func pickByHint(candidates []domain.Account, hint domain.RoleHint) (*domain.Account, string) {
	for i := range candidates {
		acc := &candidates[i]
		if acc.AccountType != hint.AccountType {
			continue
		}
		name := strings.ToLower(acc.Name)
		for _, kw := range hint.Keywords {
			if strings.Contains(name, kw) {
				return acc, "name"
			}
		}
	}
	for i := range candidates {
		if candidates[i].AccountType == hint.AccountType {
			return &candidates[i], "type"
		}
	}
	return nil, ""
}

// SetRoleMapping pins role to the account holding accountCode.
func (s *accountService) SetRoleMapping(ctx context.Context, companyID string, role domain.AccountRole, accountCode string, userID string) (*domain.Account, error) {
	hint, ok := role.Hint()
	if !ok {
		return nil, fmt.Errorf("%w: unknown account role %q", apperrors.ErrValidation, role)
	}
	account, err := s.FindByCode(ctx, companyID, accountCode)
	if err != nil {
		return nil, err
	}
	if account.AccountType != hint.AccountType {
		return nil, fmt.Errorf("%w: role %s needs a %s account, %s is %s",
			apperrors.ErrValidation, role, hint.AccountType, account.Code, account.AccountType)
	}

	mapping := domain.AccountRoleMapping{
		CompanyID:   companyID,
		Role:        role,
		AccountCode: account.Code,
		AuditFields: domain.NewAuditFields(userID, time.Now().UTC()),
	}
	if err := s.accountRepo.SaveRoleMapping(ctx, mapping); err != nil {
		s.LogError(ctx, err, "Failed to save role mapping", slog.String("role", string(role)))
		return nil, fmt.Errorf("failed to save role mapping: %w", err)
	}
	s.LogInfo(ctx, "Role mapping saved", slog.String("role", string(role)), slog.String("code", account.Code))
	return account, nil
}

// EnsureChildAccounts creates the children of parentCode that are missing,
// keyed by currency code. Existing children are left untouched.
func (s *accountService) EnsureChildAccounts(ctx context.Context, companyID string, parentCode string, children []domain.ChildAccountSpec, userID string) ([]domain.Account, error) {
	parent, err := s.FindByCode(ctx, companyID, parentCode)
	if err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.ListChildAccounts(ctx, parent.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list child accounts", slog.String("parent_code", parentCode))
		return nil, fmt.Errorf("failed to list children of %s: %w", parentCode, err)
	}
	present := make(map[string]bool, len(existing))
	for _, child := range existing {
		present[strings.ToUpper(child.CurrencyCode)] = true
	}

	now := time.Now().UTC()
	created := make([]domain.Account, 0)
	for _, spec := range children {
		key := strings.ToUpper(spec.Key)
		if key == "" {
			key = strings.ToUpper(spec.CurrencyCode)
		}
		if key == "" {
			return created, fmt.Errorf("%w: child account key is required", apperrors.ErrValidation)
		}
		if present[key] {
			continue
		}

		child := domain.Account{
			AccountID:       uuid.NewString(),
			CompanyID:       companyID,
			Code:            spec.Code,
			Name:            spec.Name,
			AccountType:     parent.AccountType,
			CurrencyCode:    key,
			ParentAccountID: parent.AccountID,
			IsSystem:        true,
			IsActive:        true,
			AuditFields:     domain.NewAuditFields(userID, now),
		}
		if child.Code == "" {
			child.Code = parent.Code + "-" + key
		}
		if child.Name == "" {
			child.Name = parent.Name + " " + key
		}

		if err := s.accountRepo.SaveAccount(ctx, child); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				s.LogWarn(ctx, "Child account already exists", slog.String("code", child.Code))
				present[key] = true
				continue
			}
			s.LogError(ctx, err, "Failed to create child account", slog.String("code", child.Code))
			return created, fmt.Errorf("failed to create child %s: %w", child.Code, err)
		}
		present[key] = true
		created = append(created, child)
	}

	s.LogInfo(ctx, "Child accounts ensured",
		slog.String("parent_code", parentCode),
		slog.Int("created", len(created)))
	return created, nil
}
