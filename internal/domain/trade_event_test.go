package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTradeEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		trade   TradeEvent
		wantErr error
	}{
		{
			name: "profitable sell",
			trade: TradeEvent{
				ID:     uuid.New(),
				Date:   MustParseDate("2024-01-02"),
				Name:   "EURUSD",
				PnL:    decimal.NewFromInt(100),
				OpKind: OpKindSell,
			},
		},
		{
			name: "zero pnl is allowed",
			trade: TradeEvent{
				ID:     uuid.New(),
				Date:   MustParseDate("2024-01-02"),
				Name:   "EURUSD",
				PnL:    decimal.Zero,
				OpKind: OpKindBuy,
			},
		},
		{
			name: "missing date",
			trade: TradeEvent{
				Name:   "EURUSD",
				PnL:    decimal.NewFromInt(-30),
				OpKind: OpKindBuy,
			},
			wantErr: ErrMissingField,
		},
		{
			name: "blank name",
			trade: TradeEvent{
				Date:   MustParseDate("2024-01-02"),
				Name:   "   ",
				OpKind: OpKindBuy,
			},
			wantErr: ErrMissingField,
		},
		{
			name: "unknown operation",
			trade: TradeEvent{
				Date:   MustParseDate("2024-01-02"),
				Name:   "EURUSD",
				OpKind: OpKind("HOLD"),
			},
			wantErr: ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trade.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseOpKind(t *testing.T) {
	k, err := ParseOpKind("sell")
	assert.NoError(t, err)
	assert.Equal(t, OpKindSell, k)

	_, err = ParseOpKind("")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
