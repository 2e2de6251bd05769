package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/tradeledger-backend/internal/adapter/dto"
	"github.com/simaogato/tradeledger-backend/internal/domain"
	"github.com/simaogato/tradeledger-backend/internal/usecase/ledger"
	"github.com/simaogato/tradeledger-backend/internal/usecase/report"
)

// Server implements the LedgerService gRPC server
type Server struct {
	ReportService *report.ReportService
	LedgerService *ledger.LedgerService
}

// NewServer creates a new gRPC server instance
func NewServer(reportService *report.ReportService, ledgerService *ledger.LedgerService) *Server {
	return &Server{
		ReportService: reportService,
		LedgerService: ledgerService,
	}
}

var _ LedgerServiceServer = (*Server)(nil)

// GetDailyPnl handles the GetDailyPnl RPC
func (s *Server) GetDailyPnl(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.DailyPnlRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	query, err := req.Query()
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.ReportService.DailyPnl(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewDailyPnlResponse(result))
}

// GetAttribution handles the GetAttribution RPC
func (s *Server) GetAttribution(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	result, err := s.ReportService.Attribution(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewAttributionResponse(result))
}

// GetCapitalAtDate handles the GetCapitalAtDate RPC
func (s *Server) GetCapitalAtDate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.CapitalRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	date, err := req.ParsedDate()
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.ReportService.CapitalAt(ctx, date)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewCapitalResponse(result))
}

// ListCashEvents handles the ListCashEvents RPC
func (s *Server) ListCashEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.CashEventsRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	query, err := req.Query()
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.ReportService.CashEvents(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewCashEventsResponse(result))
}

// ListTradeEvents handles the ListTradeEvents RPC
func (s *Server) ListTradeEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.TradeEventsRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	query, err := req.Query()
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.ReportService.TradeEvents(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewTradeEventsResponse(result))
}

// RecordCashEvent handles the RecordCashEvent RPC
func (s *Server) RecordCashEvent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.CashEventRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	input, err := req.Input()
	if err != nil {
		return nil, mapError(err)
	}

	event, err := s.LedgerService.RecordCashEvent(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewCashEventResponse(event))
}

// UpdateCashEvent handles the UpdateCashEvent RPC
func (s *Server) UpdateCashEvent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.CashEventRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	id, err := dto.ParseID(req.ID)
	if err != nil {
		return nil, mapError(err)
	}
	input, err := req.Input()
	if err != nil {
		return nil, mapError(err)
	}

	event, err := s.LedgerService.UpdateCashEvent(ctx, id, input)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewCashEventResponse(event))
}

// DeleteCashEvent handles the DeleteCashEvent RPC
func (s *Server) DeleteCashEvent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.IDRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	id, err := dto.ParseID(req.ID)
	if err != nil {
		return nil, mapError(err)
	}

	if err := s.LedgerService.DeleteCashEvent(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.DeleteResponse{ID: id.String(), Deleted: true})
}

// RecordTradeEvent handles the RecordTradeEvent RPC
func (s *Server) RecordTradeEvent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.TradeEventRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	input, err := req.Input()
	if err != nil {
		return nil, mapError(err)
	}

	event, err := s.LedgerService.RecordTradeEvent(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewTradeEventResponse(event))
}

// UpdateTradeEvent handles the UpdateTradeEvent RPC
func (s *Server) UpdateTradeEvent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.TradeEventRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	id, err := dto.ParseID(req.ID)
	if err != nil {
		return nil, mapError(err)
	}
	input, err := req.Input()
	if err != nil {
		return nil, mapError(err)
	}

	event, err := s.LedgerService.UpdateTradeEvent(ctx, id, input)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewTradeEventResponse(event))
}

// DeleteTradeEvent handles the DeleteTradeEvent RPC
func (s *Server) DeleteTradeEvent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.IDRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	id, err := dto.ParseID(req.ID)
	if err != nil {
		return nil, mapError(err)
	}

	if err := s.LedgerService.DeleteTradeEvent(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.DeleteResponse{ID: id.String(), Deleted: true})
}

// UpdateProfile sets a stakeholder's profit share ratio
func (s *Server) UpdateProfile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req dto.ProfileRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, err
	}
	input, err := req.Input()
	if err != nil {
		return nil, mapError(err)
	}

	update, err := s.LedgerService.UpdateProfile(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return encodeResponse(dto.NewProfileResponse(update))
}

// decodeRequest copies a Struct into a request DTO through its JSON form
func decodeRequest(in *structpb.Struct, v any) error {
	if in == nil {
		return nil
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

func encodeResponse(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError maps domain errors to gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidRatio),
		errors.Is(err, domain.ErrUnknownOwner),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidQuery):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	default:
		return status.Errorf(codes.Internal, "%s", err.Error())
	}
}
