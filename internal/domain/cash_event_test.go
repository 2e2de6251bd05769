package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCashEvent_Validate(t *testing.T) {
	valid := func() CashEvent {
		return CashEvent{
			ID:      uuid.New(),
			Date:    MustParseDate("2024-01-01"),
			Amount:  decimal.NewFromInt(1000),
			Kind:    CashKindDeposit,
			OwnerID: "alice",
		}
	}

	tests := []struct {
		name    string
		mutate  func(e *CashEvent)
		wantErr error
	}{
		{name: "valid deposit", mutate: func(e *CashEvent) {}},
		{name: "valid withdrawal", mutate: func(e *CashEvent) { e.Kind = CashKindWithdrawal }},
		{name: "missing date", mutate: func(e *CashEvent) { e.Date = Date{} }, wantErr: ErrMissingField},
		{name: "zero amount", mutate: func(e *CashEvent) { e.Amount = decimal.Zero }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(e *CashEvent) { e.Amount = decimal.NewFromInt(-5) }, wantErr: ErrInvalidAmount},
		{name: "unknown kind", mutate: func(e *CashEvent) { e.Kind = CashKind("TRANSFER") }, wantErr: ErrInvalidKind},
		{name: "missing owner", mutate: func(e *CashEvent) { e.OwnerID = "" }, wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCashEvent_Signed(t *testing.T) {
	deposit := CashEvent{Amount: decimal.NewFromInt(250), Kind: CashKindDeposit}
	withdrawal := CashEvent{Amount: decimal.NewFromInt(250), Kind: CashKindWithdrawal}

	assert.True(t, deposit.Signed().Equal(decimal.NewFromInt(250)))
	assert.True(t, withdrawal.Signed().Equal(decimal.NewFromInt(-250)))
}

func TestParseCashKind(t *testing.T) {
	k, err := ParseCashKind("deposit")
	assert.NoError(t, err)
	assert.Equal(t, CashKindDeposit, k)

	k, err = ParseCashKind(" Withdrawal ")
	assert.NoError(t, err)
	assert.Equal(t, CashKindWithdrawal, k)

	_, err = ParseCashKind("fee")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
