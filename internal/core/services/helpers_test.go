package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		ReconcileConcurrency:   4,
		EntryBalanceTolerance:  decimal.RequireFromString("0.01"),
		ReportBalanceTolerance: decimal.NewFromInt(1),
		ReportRoundingPlaces:   2,
		RoleAccountCodes: map[domain.AccountRole]string{
			domain.RolePrimaryCash:     "1101",
			domain.RoleSupplierPayable: "2101",
		},
	}
}

func newContainer(t *testing.T, ledger *testutil.Ledger, tweak ...func(*config.Config)) *portssvc.ServiceContainer {
	t.Helper()
	cfg := testConfig()
	for _, fn := range tweak {
		fn(cfg)
	}
	return services.NewServiceContainer(cfg, ledger.Store.Repositories())
}

func requireBalance(t *testing.T, ledger *testutil.Ledger, account domain.Account, want string) {
	t.Helper()
	got := ledger.Store.Balance(account.AccountID)
	require.Truef(t, got.Equal(decimal.RequireFromString(want)), "balance of %s: want %s, got %s", account.Code, want, got)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var ctx = context.Background()
