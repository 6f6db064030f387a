package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jobboard-api/internal/cache"
	"github.com/yourusername/jobboard-api/internal/model"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeItem struct {
	ID    string
	Score int
	Age   time.Duration
	Panic bool
	Fail  bool
	Text  string
}

type fakeAdapter struct {
	cfg   ServiceConfig
	fetch func(ctx context.Context, call int32) ([]fakeItem, error)
	calls atomic.Int32
}

func newFakeAdapter(items ...fakeItem) *fakeAdapter {
	return &fakeAdapter{
		cfg: ServiceConfig{
			ProviderID:    "fake",
			Name:          "Fake",
			CacheDuration: time.Hour,
			MaxJobs:       200,
			MaxAgeDays:    30,
		},
		fetch: func(context.Context, int32) ([]fakeItem, error) { return items, nil },
	}
}

func (a *fakeAdapter) Config() ServiceConfig { return a.cfg }

func (a *fakeAdapter) FetchFromAPI(ctx context.Context, _ FetchOptions) ([]fakeItem, error) {
	return a.fetch(ctx, a.calls.Add(1))
}

func (a *fakeAdapter) TransformJob(it fakeItem, _ FetchOptions) (model.ParsedJob, error) {
	if it.Panic {
		panic("malformed item")
	}
	if it.Fail {
		return model.ParsedJob{}, errors.New("missing fields")
	}
	job := model.ParsedJob{ID: "fake-" + it.ID, MatchScore: it.Score, RawText: it.Text}
	if it.Text != "" {
		job.HTMLText = "<div>original</div>"
	}
	if it.Age > 0 {
		job.PostedAt = t0.Add(-it.Age)
	}
	return job, nil
}

type metaAdapter struct {
	*fakeAdapter
	meta *model.ThreadMetadata
	err  error
}

func (a *metaAdapter) FetchMetadata(context.Context, FetchOptions) (*model.ThreadMetadata, error) {
	return a.meta, a.err
}

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func newCache() *cache.Cache {
	return cache.New(cache.NewMemoryStore(0), cache.WithClock(clockAt(t0)))
}

func jobIDs(jobs []model.ParsedJob) []string {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}

const day = 24 * time.Hour

func TestProcessJobsCapsAndSorts(t *testing.T) {
	items := make([]fakeItem, 250)
	for i := range items {
		items[i] = fakeItem{ID: fmt.Sprint(i), Score: (i * 37) % 101, Age: day}
	}
	svc := NewJobService[fakeItem](newFakeAdapter(items...), nil, WithClock(clockAt(t0)))

	res, err := svc.Fetch(context.Background(), FetchOptions{})
	require.NoError(t, err)
	require.Len(t, res.Jobs, 200)
	for i := 1; i < len(res.Jobs); i++ {
		assert.GreaterOrEqual(t, res.Jobs[i-1].MatchScore, res.Jobs[i].MatchScore)
	}
	assert.Equal(t, 100, res.Jobs[0].MatchScore)
	assert.False(t, res.FromCache)
	assert.Equal(t, t0, res.FetchedAt)
}

func TestProcessJobsStableAndAgeFilter(t *testing.T) {
	cfg := ServiceConfig{MaxJobs: 10, MaxAgeDays: 30}
	jobs := []model.ParsedJob{
		{ID: "a", MatchScore: 50, PostedAt: t0.Add(-10 * day)},
		{ID: "old", MatchScore: 90, PostedAt: t0.Add(-31 * day)},
		{ID: "b", MatchScore: 50},
		{ID: "c", MatchScore: 70, PostedAt: t0.Add(-30 * day)},
		{ID: "d", MatchScore: 50, PostedAt: t0},
	}

	got := ProcessJobs(cfg, jobs, t0)
	assert.Equal(t, []string{"c", "a", "b", "d"}, jobIDs(got))
	assert.Equal(t, "old", jobs[1].ID, "input must not be reordered")
}

func TestProcessJobsNoLimits(t *testing.T) {
	jobs := []model.ParsedJob{{ID: "a", PostedAt: t0.AddDate(-5, 0, 0)}, {ID: "b"}}
	assert.Len(t, ProcessJobs(ServiceConfig{}, jobs, t0), 2)
}

func TestFetchSkipsFailingTransforms(t *testing.T) {
	adapter := newFakeAdapter(
		fakeItem{ID: "1", Score: 10},
		fakeItem{ID: "2", Panic: true},
		fakeItem{ID: "3", Fail: true},
		fakeItem{ID: "4", Score: 20},
	)
	svc := NewJobService[fakeItem](adapter, nil, WithClock(clockAt(t0)))

	res, err := svc.Fetch(context.Background(), FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fake-4", "fake-1"}, jobIDs(res.Jobs))
}

func TestFetchUsesCache(t *testing.T) {
	ctx := context.Background()
	adapter := newFakeAdapter(fakeItem{ID: "1", Score: 10})
	svc := NewJobService[fakeItem](adapter, newCache(), WithClock(clockAt(t0)))

	first, err := svc.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := svc.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, jobIDs(first.Jobs), jobIDs(second.Jobs))
	assert.True(t, second.FetchedAt.Equal(t0))
	assert.Equal(t, int32(1), adapter.calls.Load())

	third, err := svc.Fetch(ctx, FetchOptions{ForceRefresh: true})
	require.NoError(t, err)
	assert.False(t, third.FromCache)
	assert.Equal(t, int32(2), adapter.calls.Load())

	svc.Invalidate(ctx)
	fourth, err := svc.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	assert.False(t, fourth.FromCache)
	assert.Equal(t, int32(3), adapter.calls.Load())
}

func TestFetchRebuildsHTMLFromCache(t *testing.T) {
	ctx := context.Background()
	adapter := newFakeAdapter(fakeItem{ID: "1", Text: "Acme | Dev\n\nGo & <Rust>\nremote"})
	svc := NewJobService[fakeItem](adapter, newCache(), WithClock(clockAt(t0)))

	first, err := svc.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "<div>original</div>", first.Jobs[0].HTMLText)

	second, err := svc.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	require.True(t, second.FromCache)
	assert.Equal(t, "<p>Acme | Dev</p><p>Go &amp; &lt;Rust&gt;<br>remote</p>", second.Jobs[0].HTMLText)
	assert.Equal(t, first.Jobs[0].RawText, second.Jobs[0].RawText)
}

func TestFetchErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	adapter := newFakeAdapter()
	adapter.fetch = func(context.Context, int32) ([]fakeItem, error) {
		return nil, &APIError{Provider: "Fake", StatusCode: 503, Body: "unavailable"}
	}
	c := newCache()
	svc := NewJobService[fakeItem](adapter, c)

	_, err := svc.Fetch(ctx, FetchOptions{})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 503, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Fake API returned 503: unavailable")

	assert.Nil(t, c.Read(ctx, cache.KeyFor("fake"), time.Hour))
}

func TestFetchPropagatesCancellation(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.fetch = func(ctx context.Context, _ int32) ([]fakeItem, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	svc := NewJobService[fakeItem](adapter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Fetch(ctx, FetchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSupersededFetchSkipsCacheWrite(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})

	adapter := newFakeAdapter()
	adapter.fetch = func(_ context.Context, call int32) ([]fakeItem, error) {
		if call == 1 {
			close(entered)
			<-release
			return []fakeItem{{ID: "stale"}}, nil
		}
		return []fakeItem{{ID: "fresh"}}, nil
	}
	svc := NewJobService[fakeItem](adapter, newCache(), WithClock(clockAt(t0)))

	done := make(chan *FetchResult)
	go func() {
		res, err := svc.Fetch(ctx, FetchOptions{ForceRefresh: true})
		assert.NoError(t, err)
		done <- res
	}()

	<-entered
	fresh, err := svc.Fetch(ctx, FetchOptions{ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"fake-fresh"}, jobIDs(fresh.Jobs))

	close(release)
	stale := <-done
	assert.Equal(t, []string{"fake-stale"}, jobIDs(stale.Jobs))

	cached, err := svc.Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Equal(t, []string{"fake-fresh"}, jobIDs(cached.Jobs))
}

func TestFetchMetadata(t *testing.T) {
	ctx := context.Background()
	meta := &model.ThreadMetadata{ID: "42", Title: "Ask HN: Who is hiring?"}

	ok := &metaAdapter{fakeAdapter: newFakeAdapter(fakeItem{ID: "1"}), meta: meta}
	res, err := NewJobService[fakeItem](ok, nil).Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, meta, res.Metadata)

	failing := &metaAdapter{fakeAdapter: newFakeAdapter(fakeItem{ID: "1"}), err: errors.New("boom")}
	res, err = NewJobService[fakeItem](failing, nil).Fetch(ctx, FetchOptions{})
	require.NoError(t, err)
	assert.Nil(t, res.Metadata)
	assert.Len(t, res.Jobs, 1)
}

func TestRegistry(t *testing.T) {
	a := NewJobService[fakeItem](newFakeAdapter(), nil)
	b := newFakeAdapter()
	b.cfg.ProviderID = "other"
	reg := NewRegistry(a, NewJobService[fakeItem](b, nil))

	assert.Equal(t, []string{"fake", "other"}, reg.IDs())

	p, err := reg.Get("other")
	require.NoError(t, err)
	assert.Equal(t, "other", p.ID())

	_, err = reg.Get("monster")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	reg.Register(NewJobService[fakeItem](newFakeAdapter(), nil))
	assert.Equal(t, []string{"fake", "other"}, reg.IDs())
	assert.Len(t, reg.Providers(), 2)
}
