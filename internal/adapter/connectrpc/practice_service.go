package connectrpc

import (
	"context"

	"connectrpc.com/connect"

	"github.com/eslsoft/vocdrill/internal/adapter/mapping"
	"github.com/eslsoft/vocdrill/internal/usecase"
	v1 "github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1"
	"github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1/vocdrillv1connect"
)

var _ vocdrillv1connect.PracticeServiceHandler = (*PracticeServiceServer)(nil)

type PracticeServiceServer struct {
	uc usecase.PracticeUsecase
}

func NewPracticeServiceServer(uc usecase.PracticeUsecase) *PracticeServiceServer {
	return &PracticeServiceServer{uc: uc}
}

func (s *PracticeServiceServer) StartSession(ctx context.Context, req *connect.Request[v1.StartSessionRequest]) (*connect.Response[v1.Session], error) {
	session, err := s.uc.Start(ctx, req.Msg.WordSetId)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	if err := checkInt32("item count", session.ItemCount); err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbSession(session)), nil
}

func (s *PracticeServiceServer) NextRound(ctx context.Context, req *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Round], error) {
	round, err := s.uc.NextRound(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	if err := checkInt32("round index", round.Index); err != nil {
		return nil, err
	}
	return connect.NewResponse(mapping.ToPbRound(round)), nil
}

func (s *PracticeServiceServer) Answer(ctx context.Context, req *connect.Request[v1.AnswerRequest]) (*connect.Response[v1.AnswerResult], error) {
	msg := req.Msg
	result, err := s.uc.Answer(ctx, msg.SessionId, msg.RoundId, msg.ChosenId)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbAnswerResult(result)), nil
}

func (s *PracticeServiceServer) Skip(ctx context.Context, req *connect.Request[v1.SkipRequest]) (*connect.Response[v1.AnswerResult], error) {
	result, err := s.uc.Skip(ctx, req.Msg.SessionId, req.Msg.RoundId)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbAnswerResult(result)), nil
}

func (s *PracticeServiceServer) Report(ctx context.Context, req *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Report], error) {
	report, err := s.uc.Report(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbReport(report)), nil
}

func (s *PracticeServiceServer) Finish(ctx context.Context, req *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Report], error) {
	report, err := s.uc.Finish(ctx, req.Msg.SessionId)
	if err != nil {
		return nil, mapping.ToConnectError(err)
	}
	return connect.NewResponse(mapping.ToPbReport(report)), nil
}
