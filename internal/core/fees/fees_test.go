package fees_test

import (
	"testing"

	"github.com/afrimoni/remit_backend/internal/apperrors"
	"github.com/afrimoni/remit_backend/internal/core/domain"
	"github.com/afrimoni/remit_backend/internal/core/fees"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestCalculate_RateTable(t *testing.T) {
	testCases := []struct {
		name             string
		amount           int64
		senderCountry    string
		recipientCountry string
		role             domain.AccountRole
		wantFee          int64
	}{
		{"same country is 1%", 10000, "Cameroon", "Cameroon", domain.RoleUser, 100},
		{"same country case-insensitive", 10000, "cameroon", "CAMEROON", domain.RoleUser, 100},
		{"intra central africa is 3%", 5000, "Cameroon", "Gabon", domain.RoleUser, 150},
		{"intra west africa is 3%", 5000, "Senegal", "Mali", domain.RoleUser, 150},
		{"central to west africa is 6%", 5000, "Cameroon", "Senegal", domain.RoleUser, 300},
		{"west to central africa is 6%", 5000, "Nigeria", "Chad", domain.RoleUser, 300},
		{"europe to africa is 3%", 20000, "France", "Cameroon", domain.RoleUser, 600},
		{"africa to europe is 3%", 20000, "Togo", "Germany", domain.RoleUser, 600},
		{"default international is 6%", 10000, "United States", "Cameroon", domain.RoleUser, 600},
		{"europe to europe falls to default", 10000, "France", "Germany", domain.RoleUser, 600},
		{"fee rounds to nearest unit", 33, "Cameroon", "Cameroon", domain.RoleUser, 0},
		{"fee rounds half up", 50, "Cameroon", "Cameroon", domain.RoleUser, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := fees.Calculate(d(tc.amount), tc.senderCountry, tc.recipientCountry, tc.role)
			require.NoError(t, err)
			assert.True(t, res.Fee.Equal(d(tc.wantFee)), "fee = %s, want %d", res.Fee, tc.wantFee)
			assert.True(t, res.AgentCommission.Add(res.PlatformCommission).Equal(res.Fee),
				"commission split must sum to fee")
		})
	}
}

func TestCalculate_AgentCommissionSplit(t *testing.T) {
	// Central Africa -> West Africa at 6%: amount 5000 gives fee 300,
	// agent takes 10%, platform the rest.
	res, err := fees.Calculate(d(5000), "Cameroon", "Senegal", domain.RoleAgent)
	require.NoError(t, err)

	assert.True(t, res.Fee.Equal(d(300)), "fee = %s", res.Fee)
	assert.True(t, res.AgentCommission.Equal(d(30)), "agentCommission = %s", res.AgentCommission)
	assert.True(t, res.PlatformCommission.Equal(d(270)), "platformCommission = %s", res.PlatformCommission)
}

func TestCalculate_AgentNationalTransferHasNoAgentCommission(t *testing.T) {
	res, err := fees.Calculate(d(10000), "Cameroon", "Cameroon", domain.RoleAgent)
	require.NoError(t, err)

	assert.True(t, res.AgentCommission.IsZero())
	assert.True(t, res.PlatformCommission.Equal(res.Fee))
}

func TestCalculate_NonAgentInternationalHasNoAgentCommission(t *testing.T) {
	res, err := fees.Calculate(d(5000), "Cameroon", "Senegal", domain.RoleMerchant)
	require.NoError(t, err)

	assert.True(t, res.AgentCommission.IsZero())
	assert.True(t, res.PlatformCommission.Equal(d(300)))
}

func TestCalculate_InvalidAmount(t *testing.T) {
	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		d(-100),
		decimal.NewFromFloat(10.5),
	} {
		_, err := fees.Calculate(amount, "Cameroon", "Gabon", domain.RoleUser)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount, "amount %s", amount)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	first, err := fees.Calculate(d(12345), "Ghana", "Gabon", domain.RoleAgent)
	require.NoError(t, err)
	second, err := fees.Calculate(d(12345), "Ghana", "Gabon", domain.RoleAgent)
	require.NoError(t, err)

	assert.True(t, first.Fee.Equal(second.Fee))
	assert.True(t, first.AgentCommission.Equal(second.AgentCommission))
	assert.True(t, first.PlatformCommission.Equal(second.PlatformCommission))
}
