package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	CompanyAuthorizer portssvc.CompanyAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeCompany checks that the company exists and is active and returns it.
func (s *BaseService) AuthorizeCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	if s.CompanyAuthorizer == nil {
		return nil, fmt.Errorf("%w: no company authorizer configured", apperrors.ErrInternal)
	}
	company, err := s.CompanyAuthorizer.AuthorizeCompany(ctx, companyID)
	if err != nil {
		s.LogWarn(ctx, "Company authorization failed",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()))
		return nil, err
	}
	return company, nil
}

// SystemUserID stamps audit fields of records written without an acting user.
const SystemUserID = "system"

func bootstrapUserID(ctx context.Context) string {
	if userID, ok := middleware.GetUserIDFromCtx(ctx); ok {
		return userID
	}
	return SystemUserID
}
