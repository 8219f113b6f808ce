package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/eslsoft/vocdrill/internal/adapter/connectrpc"
	adapterrepo "github.com/eslsoft/vocdrill/internal/adapter/repository"
	"github.com/eslsoft/vocdrill/internal/infrastructure/config"
	"github.com/eslsoft/vocdrill/internal/infrastructure/database"
	"github.com/eslsoft/vocdrill/internal/usecase"
	"github.com/eslsoft/vocdrill/internal/usecase/drill"
	v1 "github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1"
	"github.com/eslsoft/vocdrill/pkg/api/vocdrill/v1/vocdrillv1connect"
)

func newTestServer(t *testing.T) (*httptest.Server, *test.Hook) {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", HTTPPort: 0},
		Database: config.DatabaseConfig{Driver: "sqlite3", DSN: "file:" + t.Name() + "?mode=memory&cache=shared"},
	}
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	db, cleanup, err := database.NewConnection(cfg, logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(cleanup)

	repo := adapterrepo.NewWordSetRepository(db)
	srv := NewServer(cfg, logger,
		connectrpc.NewWordSetServiceServer(usecase.NewWordSetUsecase(repo)),
		connectrpc.NewPracticeServiceServer(usecase.NewPracticeUsecase(repo, drill.DefaultConfig(), logger)),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, hook
}

func TestServer_PracticeOverHTTP(t *testing.T) {
	ts, hook := newTestServer(t)
	ctx := context.Background()
	sets := vocdrillv1connect.NewWordSetServiceClient(ts.Client(), ts.URL)
	practice := vocdrillv1connect.NewPracticeServiceClient(ts.Client(), ts.URL)

	created, err := sets.CreateWordSet(ctx, connect.NewRequest(&v1.CreateWordSetRequest{
		Name: "fruit",
		Words: []v1.WordPair{
			{Word: "apple", Meaning: "Apfel"},
			{Word: "pear", Meaning: "Birne"},
			{Word: "plum", Meaning: "Pflaume"},
			{Word: "cherry", Meaning: "Kirsche"},
		},
	}))
	if err != nil {
		t.Fatalf("CreateWordSet error: %v", err)
	}
	if created.Msg.Id == "" || len(created.Msg.Words) != 4 {
		t.Fatalf("unexpected word set %+v", created.Msg)
	}

	session, err := practice.StartSession(ctx, connect.NewRequest(&v1.StartSessionRequest{WordSetId: created.Msg.Id}))
	if err != nil {
		t.Fatalf("StartSession error: %v", err)
	}
	if session.Msg.ItemCount != 4 {
		t.Fatalf("unexpected session %+v", session.Msg)
	}

	round, err := practice.NextRound(ctx, connect.NewRequest(&v1.SessionRequest{SessionId: session.Msg.Id}))
	if err != nil {
		t.Fatalf("NextRound error: %v", err)
	}
	if len(round.Msg.Choices) != 4 || round.Msg.Prompt == "" {
		t.Fatalf("unexpected round %+v", round.Msg)
	}

	answer, err := practice.Answer(ctx, connect.NewRequest(&v1.AnswerRequest{
		SessionId: session.Msg.Id,
		RoundId:   round.Msg.Id,
		ChosenId:  round.Msg.Choices[0].ItemId,
	}))
	if err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if answer.Msg.Correct != (answer.Msg.CorrectItemId == round.Msg.Choices[0].ItemId) {
		t.Fatalf("verdict disagrees with the revealed answer: %+v", answer.Msg)
	}

	report, err := practice.Finish(ctx, connect.NewRequest(&v1.SessionRequest{SessionId: session.Msg.Id}))
	if err != nil {
		t.Fatalf("Finish error: %v", err)
	}
	if report.Msg.Rounds != 1 || len(report.Msg.Items) != 4 {
		t.Fatalf("unexpected report %+v", report.Msg)
	}

	var completed int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "request completed" {
			completed++
		}
	}
	if completed != 5 {
		t.Fatalf("expected 5 logged calls, got %d", completed)
	}
}

func TestServer_ErrorCodes(t *testing.T) {
	ts, hook := newTestServer(t)
	ctx := context.Background()
	sets := vocdrillv1connect.NewWordSetServiceClient(ts.Client(), ts.URL)
	practice := vocdrillv1connect.NewPracticeServiceClient(ts.Client(), ts.URL)

	_, err := sets.GetWordSet(ctx, connect.NewRequest(&v1.IDRequest{Id: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
	if hook.LastEntry().Level != logrus.WarnLevel {
		t.Fatalf("client errors should log at warn, got %v", hook.LastEntry().Level)
	}

	_, err = sets.CreateWordSet(ctx, connect.NewRequest(&v1.CreateWordSetRequest{Name: " "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	small, err := sets.CreateWordSet(ctx, connect.NewRequest(&v1.CreateWordSetRequest{
		Name:  "tiny",
		Words: []v1.WordPair{{Word: "a", Meaning: "b"}},
	}))
	if err != nil {
		t.Fatalf("CreateWordSet error: %v", err)
	}
	_, err = practice.StartSession(ctx, connect.NewRequest(&v1.StartSessionRequest{WordSetId: small.Msg.Id}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	_, err = practice.NextRound(ctx, connect.NewRequest(&v1.SessionRequest{SessionId: "nope"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = sets.ListWordSets(ctx, connect.NewRequest(&v1.ListWordSetsRequest{Filter: "colour == 'red'"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestServer_CORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+vocdrillv1connect.WordSetServiceListWordSetsProcedure, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "connect-protocol-version,content-type")

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("missing CORS headers: %v", resp.Header)
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error with code %v, got %v", want, err)
	}
	if connectErr.Code() != want {
		t.Fatalf("expected code %v, got %v (%v)", want, connectErr.Code(), err)
	}
}

func TestLogger_FailedCallWithTypedNilResponse(t *testing.T) {
	logger, hook := test.NewNullLogger()
	interceptor := Logger(logger)

	next := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		var resp *connect.Response[v1.WordSet]
		return resp, connect.NewError(connect.CodeNotFound, errors.New("word set not found"))
	}
	_, err := interceptor(next)(context.Background(), connect.NewRequest(&v1.IDRequest{Id: "missing"}))
	assertCode(t, err, connect.CodeNotFound)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %v", entry.Level)
	}
	if entry.Data["status"] != connect.CodeNotFound.String() {
		t.Fatalf("expected status not_found, got %v", entry.Data["status"])
	}
	if _, ok := entry.Data["response_bytes"]; ok {
		t.Fatalf("unexpected response_bytes on failed call: %v", entry.Data)
	}
}

func TestLogger_SuccessfulCall(t *testing.T) {
	logger, hook := test.NewNullLogger()
	interceptor := Logger(logger)

	next := func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&v1.Empty{}), nil
	}
	if _, err := interceptor(next)(context.Background(), connect.NewRequest(&v1.Empty{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.InfoLevel || entry.Data["status"] != "ok" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
