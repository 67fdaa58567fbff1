package coordinator

import (
	"context"
	"sync"

	"github.com/heartmarshall/instant-jisho/internal/domain"
)

var _ Fetcher = &FetcherMock{}

type FetcherMock struct {
	FetchFunc func(ctx context.Context, word string) (domain.Result, error)

	calls struct {
		Fetch []struct {
			Ctx  context.Context
			Word string
		}
	}
	lockFetch sync.RWMutex
}

func (mock *FetcherMock) Fetch(ctx context.Context, word string) (domain.Result, error) {
	if mock.FetchFunc == nil {
		panic("FetcherMock.FetchFunc: method is nil but Fetcher.Fetch was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Word string
	}{Ctx: ctx, Word: word}
	mock.lockFetch.Lock()
	mock.calls.Fetch = append(mock.calls.Fetch, callInfo)
	mock.lockFetch.Unlock()
	return mock.FetchFunc(ctx, word)
}

func (mock *FetcherMock) FetchCalls() []struct {
	Ctx  context.Context
	Word string
} {
	mock.lockFetch.RLock()
	calls := mock.calls.Fetch
	mock.lockFetch.RUnlock()
	return calls
}
