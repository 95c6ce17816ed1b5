package chi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/minutesmind/internal/domain/search/request"
	"github.com/kailas-cloud/minutesmind/internal/domain/search/result"
	extractuc "github.com/kailas-cloud/minutesmind/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/minutesmind/internal/usecase/health"
)

type fakeSearcher struct {
	results []result.Result
	err     error
	got     *request.Request
}

func (f *fakeSearcher) Search(_ context.Context, req *request.Request) ([]result.Result, error) {
	f.got = req
	return f.results, f.err
}

type fakeExtractor struct {
	res extractuc.Result
	err error
	got *request.Request
}

func (f *fakeExtractor) Extract(_ context.Context, req *request.Request) (extractuc.Result, error) {
	f.got = req
	return f.res, f.err
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(context.Context) healthuc.Report { return f.report }

type testDeps struct {
	search  *fakeSearcher
	extract *fakeExtractor
	health  *fakeHealth
}

func newTestRouter(apiKeys ...string) (http.Handler, *testDeps) {
	deps := &testDeps{
		search:  &fakeSearcher{},
		extract: &fakeExtractor{},
		health: &fakeHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}},
	}
	srv := NewServer(deps.search, deps.extract, deps.health, zap.NewNop())
	return NewRouter(srv, RouterOptions{APIKeys: apiKeys, Logger: zap.NewNop()}), deps
}
