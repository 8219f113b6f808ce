package connectrpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/eslsoft/vocdrill/internal/adapter/mapping"
	"github.com/eslsoft/vocdrill/internal/repository"
	"github.com/eslsoft/vocdrill/internal/usecase"
	v1 "github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1"
	"github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1/vocdrillv1connect"
)

var _ vocdrillv1connect.WordSetServiceHandler = (*WordSetServiceServer)(nil)

type WordSetServiceServer struct {
	uc usecase.WordSetUsecase
}

func NewWordSetServiceServer(uc usecase.WordSetUsecase) *WordSetServiceServer {
	return &WordSetServiceServer{uc: uc}
}

func (s *WordSetServiceServer) CreateWordSet(ctx context.Context, req *connect.Request[v1.CreateWordSetRequest]) (*connect.Response[v1.WordSet], error) {
	if req.Msg == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("word set payload required"))
	}

	result, err := s.uc.CreateWordSet(ctx, req.Msg.Name, mapping.FromPbWordPairs(req.Msg.Words))
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbWordSet(result)), nil
}

func (s *WordSetServiceServer) UpdateWordSet(ctx context.Context, req *connect.Request[v1.UpdateWordSetRequest]) (*connect.Response[v1.WordSet], error) {
	if req.Msg == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("word set payload required"))
	}

	result, err := s.uc.UpdateWordSet(ctx, req.Msg.Id, req.Msg.Name, mapping.FromPbWordPairs(req.Msg.Words))
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbWordSet(result)), nil
}

func (s *WordSetServiceServer) GetWordSet(ctx context.Context, req *connect.Request[v1.IDRequest]) (*connect.Response[v1.WordSet], error) {
	result, err := s.uc.GetWordSet(ctx, req.Msg.GetId())
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbWordSet(result)), nil
}

func (s *WordSetServiceServer) ListWordSets(ctx context.Context, req *connect.Request[v1.ListWordSetsRequest]) (*connect.Response[v1.ListWordSetsResponse], error) {
	msg := req.Msg
	query := &repository.ListWordSetQuery{
		Pagination: convertPagination(msg.GetPagination()),
		FilterOrder: repository.FilterOrder{
			Filter:  msg.GetFilter(),
			OrderBy: msg.GetOrderBy(),
		},
	}
	items, total, err := s.uc.ListWordSets(ctx, query)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}

	return connect.NewResponse(&v1.ListWordSetsResponse{
		WordSets: mapping.ToPbWordSets(items),
		Pagination: &v1.PaginationResponse{
			PageNo:   query.PageNo,
			PageSize: query.PageSize,
			Total:    total,
		},
	}), nil
}

func (s *WordSetServiceServer) DeleteWordSet(ctx context.Context, req *connect.Request[v1.IDRequest]) (*connect.Response[v1.Empty], error) {
	if err := s.uc.DeleteWordSet(ctx, req.Msg.GetId()); err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(&v1.Empty{}), nil
}
