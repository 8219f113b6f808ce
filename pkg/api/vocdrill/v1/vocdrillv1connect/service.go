// Package vocdrillv1connect wires the vocdrill.v1 services onto connect handlers and clients.
package vocdrillv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	v1 "github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1"
)

const (
	WordSetServiceName  = "vocdrill.v1.WordSetService"
	PracticeServiceName = "vocdrill.v1.PracticeService"
)

const (
	WordSetServiceCreateWordSetProcedure = "/vocdrill.v1.WordSetService/CreateWordSet"
	WordSetServiceUpdateWordSetProcedure = "/vocdrill.v1.WordSetService/UpdateWordSet"
	WordSetServiceGetWordSetProcedure    = "/vocdrill.v1.WordSetService/GetWordSet"
	WordSetServiceListWordSetsProcedure  = "/vocdrill.v1.WordSetService/ListWordSets"
	WordSetServiceDeleteWordSetProcedure = "/vocdrill.v1.WordSetService/DeleteWordSet"

	PracticeServiceStartSessionProcedure = "/vocdrill.v1.PracticeService/StartSession"
	PracticeServiceNextRoundProcedure    = "/vocdrill.v1.PracticeService/NextRound"
	PracticeServiceAnswerProcedure       = "/vocdrill.v1.PracticeService/Answer"
	PracticeServiceSkipProcedure         = "/vocdrill.v1.PracticeService/Skip"
	PracticeServiceReportProcedure       = "/vocdrill.v1.PracticeService/Report"
	PracticeServiceFinishProcedure       = "/vocdrill.v1.PracticeService/Finish"
)

type WordSetServiceHandler interface {
	CreateWordSet(context.Context, *connect.Request[v1.CreateWordSetRequest]) (*connect.Response[v1.WordSet], error)
	UpdateWordSet(context.Context, *connect.Request[v1.UpdateWordSetRequest]) (*connect.Response[v1.WordSet], error)
	GetWordSet(context.Context, *connect.Request[v1.IDRequest]) (*connect.Response[v1.WordSet], error)
	ListWordSets(context.Context, *connect.Request[v1.ListWordSetsRequest]) (*connect.Response[v1.ListWordSetsResponse], error)
	DeleteWordSet(context.Context, *connect.Request[v1.IDRequest]) (*connect.Response[v1.Empty], error)
}

type PracticeServiceHandler interface {
	StartSession(context.Context, *connect.Request[v1.StartSessionRequest]) (*connect.Response[v1.Session], error)
	NextRound(context.Context, *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Round], error)
	Answer(context.Context, *connect.Request[v1.AnswerRequest]) (*connect.Response[v1.AnswerResult], error)
	Skip(context.Context, *connect.Request[v1.SkipRequest]) (*connect.Response[v1.AnswerResult], error)
	Report(context.Context, *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Report], error)
	Finish(context.Context, *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Report], error)
}

// handlerRoutes dispatches a service's procedures below its path prefix.
type handlerRoutes map[string]http.Handler

func (r handlerRoutes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

// NewWordSetServiceHandler returns the path prefix and handler serving svc.
func NewWordSetServiceHandler(svc WordSetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + WordSetServiceName + "/", handlerRoutes{
		WordSetServiceCreateWordSetProcedure: connect.NewUnaryHandler(WordSetServiceCreateWordSetProcedure, svc.CreateWordSet, opts...),
		WordSetServiceUpdateWordSetProcedure: connect.NewUnaryHandler(WordSetServiceUpdateWordSetProcedure, svc.UpdateWordSet, opts...),
		WordSetServiceGetWordSetProcedure:    connect.NewUnaryHandler(WordSetServiceGetWordSetProcedure, svc.GetWordSet, opts...),
		WordSetServiceListWordSetsProcedure:  connect.NewUnaryHandler(WordSetServiceListWordSetsProcedure, svc.ListWordSets, opts...),
		WordSetServiceDeleteWordSetProcedure: connect.NewUnaryHandler(WordSetServiceDeleteWordSetProcedure, svc.DeleteWordSet, opts...),
	}
}

// NewPracticeServiceHandler returns the path prefix and handler serving svc.
func NewPracticeServiceHandler(svc PracticeServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + PracticeServiceName + "/", handlerRoutes{
		PracticeServiceStartSessionProcedure: connect.NewUnaryHandler(PracticeServiceStartSessionProcedure, svc.StartSession, opts...),
		PracticeServiceNextRoundProcedure:    connect.NewUnaryHandler(PracticeServiceNextRoundProcedure, svc.NextRound, opts...),
		PracticeServiceAnswerProcedure:       connect.NewUnaryHandler(PracticeServiceAnswerProcedure, svc.Answer, opts...),
		PracticeServiceSkipProcedure:         connect.NewUnaryHandler(PracticeServiceSkipProcedure, svc.Skip, opts...),
		PracticeServiceReportProcedure:       connect.NewUnaryHandler(PracticeServiceReportProcedure, svc.Report, opts...),
		PracticeServiceFinishProcedure:       connect.NewUnaryHandler(PracticeServiceFinishProcedure, svc.Finish, opts...),
	}
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// WordSetServiceClient calls a remote WordSetService.
type WordSetServiceClient struct {
	createWordSet *connect.Client[v1.CreateWordSetRequest, v1.WordSet]
	updateWordSet *connect.Client[v1.UpdateWordSetRequest, v1.WordSet]
	getWordSet    *connect.Client[v1.IDRequest, v1.WordSet]
	listWordSets  *connect.Client[v1.ListWordSetsRequest, v1.ListWordSetsResponse]
	deleteWordSet *connect.Client[v1.IDRequest, v1.Empty]
}

func NewWordSetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *WordSetServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &WordSetServiceClient{
		createWordSet: connect.NewClient[v1.CreateWordSetRequest, v1.WordSet](httpClient, baseURL+WordSetServiceCreateWordSetProcedure, opts...),
		updateWordSet: connect.NewClient[v1.UpdateWordSetRequest, v1.WordSet](httpClient, baseURL+WordSetServiceUpdateWordSetProcedure, opts...),
		getWordSet:    connect.NewClient[v1.IDRequest, v1.WordSet](httpClient, baseURL+WordSetServiceGetWordSetProcedure, opts...),
		listWordSets:  connect.NewClient[v1.ListWordSetsRequest, v1.ListWordSetsResponse](httpClient, baseURL+WordSetServiceListWordSetsProcedure, opts...),
		deleteWordSet: connect.NewClient[v1.IDRequest, v1.Empty](httpClient, baseURL+WordSetServiceDeleteWordSetProcedure, opts...),
	}
}

func (c *WordSetServiceClient) CreateWordSet(ctx context.Context, req *connect.Request[v1.CreateWordSetRequest]) (*connect.Response[v1.WordSet], error) {
	return c.createWordSet.CallUnary(ctx, req)
}

func (c *WordSetServiceClient) UpdateWordSet(ctx context.Context, req *connect.Request[v1.UpdateWordSetRequest]) (*connect.Response[v1.WordSet], error) {
	return c.updateWordSet.CallUnary(ctx, req)
}

func (c *WordSetServiceClient) GetWordSet(ctx context.Context, req *connect.Request[v1.IDRequest]) (*connect.Response[v1.WordSet], error) {
	return c.getWordSet.CallUnary(ctx, req)
}

func (c *WordSetServiceClient) ListWordSets(ctx context.Context, req *connect.Request[v1.ListWordSetsRequest]) (*connect.Response[v1.ListWordSetsResponse], error) {
	return c.listWordSets.CallUnary(ctx, req)
}

func (c *WordSetServiceClient) DeleteWordSet(ctx context.Context, req *connect.Request[v1.IDRequest]) (*connect.Response[v1.Empty], error) {
	return c.deleteWordSet.CallUnary(ctx, req)
}

// PracticeServiceClient calls a remote PracticeService.
type PracticeServiceClient struct {
	startSession *connect.Client[v1.StartSessionRequest, v1.Session]
	nextRound    *connect.Client[v1.SessionRequest, v1.Round]
	answer       *connect.Client[v1.AnswerRequest, v1.AnswerResult]
	skip         *connect.Client[v1.SkipRequest, v1.AnswerResult]
	report       *connect.Client[v1.SessionRequest, v1.Report]
	finish       *connect.Client[v1.SessionRequest, v1.Report]
}

func NewPracticeServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PracticeServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &PracticeServiceClient{
		startSession: connect.NewClient[v1.StartSessionRequest, v1.Session](httpClient, baseURL+PracticeServiceStartSessionProcedure, opts...),
		nextRound:    connect.NewClient[v1.SessionRequest, v1.Round](httpClient, baseURL+PracticeServiceNextRoundProcedure, opts...),
		answer:       connect.NewClient[v1.AnswerRequest, v1.AnswerResult](httpClient, baseURL+PracticeServiceAnswerProcedure, opts...),
		skip:         connect.NewClient[v1.SkipRequest, v1.AnswerResult](httpClient, baseURL+PracticeServiceSkipProcedure, opts...),
		report:       connect.NewClient[v1.SessionRequest, v1.Report](httpClient, baseURL+PracticeServiceReportProcedure, opts...),
		finish:       connect.NewClient[v1.SessionRequest, v1.Report](httpClient, baseURL+PracticeServiceFinishProcedure, opts...),
	}
}

func (c *PracticeServiceClient) StartSession(ctx context.Context, req *connect.Request[v1.StartSessionRequest]) (*connect.Response[v1.Session], error) {
	return c.startSession.CallUnary(ctx, req)
}

func (c *PracticeServiceClient) NextRound(ctx context.Context, req *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Round], error) {
	return c.nextRound.CallUnary(ctx, req)
}

func (c *PracticeServiceClient) Answer(ctx context.Context, req *connect.Request[v1.AnswerRequest]) (*connect.Response[v1.AnswerResult], error) {
	return c.answer.CallUnary(ctx, req)
}

func (c *PracticeServiceClient) Skip(ctx context.Context, req *connect.Request[v1.SkipRequest]) (*connect.Response[v1.AnswerResult], error) {
	return c.skip.CallUnary(ctx, req)
}

func (c *PracticeServiceClient) Report(ctx context.Context, req *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Report], error) {
	return c.report.CallUnary(ctx, req)
}

func (c *PracticeServiceClient) Finish(ctx context.Context, req *connect.Request[v1.SessionRequest]) (*connect.Response[v1.Report], error) {
	return c.finish.CallUnary(ctx, req)
}
