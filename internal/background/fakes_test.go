package background

import (
	"context"
	"sync"
	"time"

	"github.com/runnerr0/historyremover/internal/storage"
)

type fakeHistory struct {
	mu sync.Mutex

	visits    []storage.Visit
	searchErr error
	rangeErr  error
	failURLs  map[string]error
	delay     time.Duration

	queries     []storage.Query
	deleted     []string
	deleteCalls int
	ranges      [][2]int64

	inFlight    int
	maxInFlight int
}

func (f *fakeHistory) Search(_ context.Context, q storage.Query) ([]storage.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.visits, nil
}

func (f *fakeHistory) DeleteURL(_ context.Context, url string) error {
	f.mu.Lock()
	f.deleteCalls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if err, ok := f.failURLs[url]; ok {
		return err
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeHistory) DeleteRange(_ context.Context, start, end int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = append(f.ranges, [2]int64{start, end})
	return f.rangeErr
}

type fakeBookmarks struct {
	tree []storage.BookmarkNode
	err  error
}

func (f *fakeBookmarks) GetTree(context.Context) ([]storage.BookmarkNode, error) {
	return f.tree, f.err
}

type fakeSettings struct {
	mu     sync.Mutex
	values map[string][]byte
	getErr error
	setErr error
	sets   int
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: map[string][]byte{}}
}

func (f *fakeSettings) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettings) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.values[key] = value
	return nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []string
	batches  []int
	deleted  int
	failed   int
}

func (f *fakeRecorder) RecordRequest(action string, success bool, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, action)
}

func (f *fakeRecorder) RecordBatch(size int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, size)
}

func (f *fakeRecorder) RecordDeletions(deleted, failed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted += deleted
	f.failed += failed
}
