package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/tradeledger-backend/internal/adapter/repository/memory"
	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/usecase/ledger"
	"github.com/simaogato/tradeledger-backend/internal/usecase/report"
)

const testToken = "test-token-123"

func startServer(t *testing.T) (*LedgerClient, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertProfile(ctx, &domain.StakeholderProfile{ID: "alice", ProfitShareRatio: decimal.RequireFromString("0.6")}))
	require.NoError(t, store.UpsertProfile(ctx, &domain.StakeholderProfile{ID: "bob", ProfitShareRatio: decimal.RequireFromString("0.4")}))

	reports := report.NewReportService(store, language.English, zerolog.Nop())
	reports.Now = func() time.Time { return time.Date(2024, time.January, 20, 12, 0, 0, 0, time.UTC) }
	ledgerService := ledger.NewLedgerService(store, zerolog.Nop())

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(zerolog.Nop()),
		AuthInterceptor(testToken),
	))
	RegisterLedgerServiceServer(srv, NewServer(reports, ledgerService))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewLedgerClient(conn), store
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+testToken)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func call(t *testing.T, client *LedgerClient, method string, req map[string]any) map[string]any {
	t.Helper()
	resp, err := client.Call(authed(), method, mustStruct(t, req))
	require.NoError(t, err, method)
	return resp.AsMap()
}

func TestServer_DailyPnlEndToEnd(t *testing.T) {
	client, _ := startServer(t)

	call(t, client, "RecordCashEvent", map[string]any{"date": "2024-01-01", "amount": "1000", "kind": "DEPOSIT", "ownerId": "alice"})
	call(t, client, "RecordTradeEvent", map[string]any{"date": "2024-01-01", "name": "EURUSD", "pnl": "100", "opKind": "BUY"})
	call(t, client, "RecordTradeEvent", map[string]any{"date": "2024-01-02", "name": "EURUSD", "pnl": "-30", "opKind": "SELL"})

	resp := call(t, client, "GetDailyPnl", map[string]any{"range": "this_month"})

	assert.Equal(t, false, resp["degraded"])
	buckets, ok := resp["buckets"].([]any)
	require.True(t, ok)
	require.Len(t, buckets, 2)

	day1 := buckets[0].(map[string]any)
	assert.Equal(t, "2024-01-01", day1["date"])
	assert.Equal(t, "1000", day1["startCapital"])
	assert.Equal(t, "10.0000", day1["pnlPct"])

	day2 := buckets[1].(map[string]any)
	assert.Equal(t, "-30", day2["netPnl"])
	assert.Equal(t, "-3.0000", day2["pnlPct"])

	totals := resp["totals"].(map[string]any)
	assert.Equal(t, "70", totals["netPnl"])
	assert.Equal(t, float64(2), totals["days"])
}

func TestServer_NullPercentTravelsAsNull(t *testing.T) {
	client, _ := startServer(t)

	call(t, client, "RecordTradeEvent", map[string]any{"date": "2024-01-03", "name": "XAUUSD", "pnl": "25", "opKind": "BUY"})

	resp := call(t, client, "GetDailyPnl", map[string]any{})
	buckets := resp["buckets"].([]any)
	require.Len(t, buckets, 1)

	bucket := buckets[0].(map[string]any)
	assert.Equal(t, "0", bucket["startCapital"])
	v, present := bucket["pnlPct"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestServer_AttributionAndCapital(t *testing.T) {
	client, _ := startServer(t)

	call(t, client, "RecordCashEvent", map[string]any{"date": "2024-01-01", "amount": "1000", "kind": "DEPOSIT", "ownerId": "alice"})
	call(t, client, "RecordCashEvent", map[string]any{"date": "2024-01-01", "amount": "1000", "kind": "DEPOSIT", "ownerId": "bob"})
	call(t, client, "RecordTradeEvent", map[string]any{"date": "2024-01-02", "name": "EURUSD", "pnl": "200", "opKind": "SELL"})

	resp := call(t, client, "GetAttribution", nil)
	assert.Equal(t, true, resp["ratiosBalanced"])
	assert.Equal(t, true, resp["reconciles"])
	assert.Equal(t, "2200", resp["accountCapital"])

	stakeholders := resp["stakeholders"].([]any)
	require.Len(t, stakeholders, 2)
	capitals := map[string]string{}
	for _, s := range stakeholders {
		m := s.(map[string]any)
		capitals[m["id"].(string)] = m["capital"].(string)
	}
	assert.Equal(t, "1120", capitals["alice"])
	assert.Equal(t, "1080", capitals["bob"])

	capital := call(t, client, "GetCapitalAtDate", map[string]any{"date": "2024-01-05"})
	assert.Equal(t, "2000", capital["capital"])
}

func TestServer_ListUpdateDelete(t *testing.T) {
	client, _ := startServer(t)

	created := call(t, client, "RecordCashEvent", map[string]any{"date": "2024-01-01", "amount": "500", "kind": "DEPOSIT", "ownerId": "bob"})
	id := created["id"].(string)

	updated := call(t, client, "UpdateCashEvent", map[string]any{"id": id, "date": "2024-01-02", "amount": "750", "kind": "DEPOSIT", "ownerId": "bob"})
	assert.Equal(t, "750", updated["amount"])

	listing := call(t, client, "ListCashEvents", map[string]any{"ownerId": "bob"})
	events := listing["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, "2024-01-02", events[0].(map[string]any)["date"])

	deleted := call(t, client, "DeleteCashEvent", map[string]any{"id": id})
	assert.Equal(t, true, deleted["deleted"])

	_, err := client.Call(authed(), "DeleteCashEvent", mustStruct(t, map[string]any{"id": id}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	trade := call(t, client, "RecordTradeEvent", map[string]any{"date": "2024-01-03", "name": "GBPJPY", "pnl": "12", "opKind": "SELL"})
	call(t, client, "UpdateTradeEvent", map[string]any{"id": trade["id"], "date": "2024-01-03", "name": "GBPJPY", "pnl": "15", "opKind": "SELL"})
	trades := call(t, client, "ListTradeEvents", map[string]any{"name": "gbp"})
	require.Len(t, trades["events"].([]any), 1)
	assert.Equal(t, "15", trades["events"].([]any)[0].(map[string]any)["pnl"])
	call(t, client, "DeleteTradeEvent", map[string]any{"id": trade["id"]})
}

func TestServer_ErrorCodes(t *testing.T) {
	client, _ := startServer(t)

	tests := []struct {
		name     string
		method   string
		req      map[string]any
		wantCode codes.Code
	}{
		{name: "negative amount", method: "RecordCashEvent", req: map[string]any{"date": "2024-01-01", "amount": "-5", "kind": "DEPOSIT", "ownerId": "alice"}, wantCode: codes.InvalidArgument},
		{name: "unknown owner", method: "RecordCashEvent", req: map[string]any{"date": "2024-01-01", "amount": "5", "kind": "DEPOSIT", "ownerId": "carol"}, wantCode: codes.InvalidArgument},
		{name: "numeric amount", method: "RecordCashEvent", req: map[string]any{"date": "2024-01-01", "amount": 5, "kind": "DEPOSIT", "ownerId": "alice"}, wantCode: codes.InvalidArgument},
		{name: "bad range token", method: "GetDailyPnl", req: map[string]any{"range": "next_decade"}, wantCode: codes.InvalidArgument},
		{name: "unknown sort key", method: "ListTradeEvents", req: map[string]any{"sortKey": "volume"}, wantCode: codes.InvalidArgument},
		{name: "missing capital date", method: "GetCapitalAtDate", req: map[string]any{}, wantCode: codes.InvalidArgument},
		{name: "bad id", method: "DeleteTradeEvent", req: map[string]any{"id": "nope"}, wantCode: codes.InvalidArgument},
		{name: "bad cash kind filter", method: "ListCashEvents", req: map[string]any{"kind": "TRANSFER"}, wantCode: codes.InvalidArgument},
		{name: "ratio above one", method: "UpdateProfile", req: map[string]any{"id": "alice", "profitShareRatio": "1.5"}, wantCode: codes.InvalidArgument},
		{name: "unknown stakeholder", method: "UpdateProfile", req: map[string]any{"id": "carol", "profitShareRatio": "0.5"}, wantCode: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Call(authed(), tt.method, mustStruct(t, tt.req))
			assert.Equal(t, tt.wantCode, status.Code(err), "err: %v", err)
		})
	}
}

func TestServer_RequiresToken(t *testing.T) {
	client, _ := startServer(t)

	_, err := client.Call(context.Background(), "GetAttribution", nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestServer_FetchFailureIsDegradedNotError(t *testing.T) {
	client, store := startServer(t)
	store.FetchErr = assert.AnError

	resp := call(t, client, "GetDailyPnl", map[string]any{})
	assert.Equal(t, true, resp["degraded"])
	assert.Empty(t, resp["buckets"])
}

func TestServer_ListingsCarryTotalsAndDescription(t *testing.T) {
	client, _ := startServer(t)

	call(t, client, "RecordCashEvent", map[string]any{"date": "2024-01-01", "amount": "1000", "kind": "DEPOSIT", "ownerId": "alice", "description": "opening balance"})
	call(t, client, "RecordCashEvent", map[string]any{"date": "2024-01-04", "amount": "150", "kind": "WITHDRAWAL", "ownerId": "bob"})
	call(t, client, "RecordTradeEvent", map[string]any{"date": "2024-01-02", "name": "EURUSD", "pnl": "40", "opKind": "BUY"})
	call(t, client, "RecordTradeEvent", map[string]any{"date": "2024-01-03", "name": "GBPJPY", "pnl": "-15", "opKind": "SELL"})

	cash := call(t, client, "ListCashEvents", map[string]any{})
	assert.Equal(t, "850", cash["total"])
	first := cash["events"].([]any)[0].(map[string]any)
	assert.Equal(t, "opening balance", first["description"])

	withdrawals := call(t, client, "ListCashEvents", map[string]any{"kind": "withdrawal"})
	require.Len(t, withdrawals["events"].([]any), 1)
	assert.Equal(t, "-150", withdrawals["total"])

	trades := call(t, client, "ListTradeEvents", map[string]any{})
	assert.Equal(t, "25", trades["total"])

	losers := call(t, client, "ListTradeEvents", map[string]any{"maxPnl": "0"})
	require.Len(t, losers["events"].([]any), 1)
	assert.Equal(t, "-15", losers["total"])
}

func TestServer_UpdateProfileChangesAttribution(t *testing.T) {
	client, _ := startServer(t)

	call(t, client, "RecordCashEvent", map[string]any{"date": "2024-01-01", "amount": "1000", "kind": "DEPOSIT", "ownerId": "alice"})
	call(t, client, "RecordCashEvent", map[string]any{"date": "2024-01-01", "amount": "1000", "kind": "DEPOSIT", "ownerId": "bob"})
	call(t, client, "RecordTradeEvent", map[string]any{"date": "2024-01-02", "name": "EURUSD", "pnl": "200", "opKind": "SELL"})

	half := call(t, client, "UpdateProfile", map[string]any{"id": "alice", "profitShareRatio": "0.5"})
	assert.Equal(t, "0.5", half["profitShareRatio"])
	assert.Equal(t, false, half["ratiosBalanced"])

	balanced := call(t, client, "UpdateProfile", map[string]any{"id": "bob", "profitShareRatio": "0.5"})
	assert.Equal(t, true, balanced["ratiosBalanced"])

	resp := call(t, client, "GetAttribution", nil)
	assert.Equal(t, true, resp["ratiosBalanced"])
	capitals := map[string]string{}
	for _, s := range resp["stakeholders"].([]any) {
		m := s.(map[string]any)
		capitals[m["id"].(string)] = m["capital"].(string)
	}
	assert.Equal(t, "1100", capitals["alice"])
	assert.Equal(t, "1100", capitals["bob"])
}
