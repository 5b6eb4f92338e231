package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/junwei-lu/tradescan/constants"
	"github.com/junwei-lu/tradescan/internal/common"
)

type fakeSource struct {
	sets    []RuleSet
	err     error
	fetches int
}

func (s *fakeSource) Fetch(_ context.Context, _ constants.RecordKind) ([]RuleSet, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.sets, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCatalogCachesWithinTTL(t *testing.T) {
	t.Parallel()

	src := &fakeSource{sets: []RuleSet{boothRuleSet()}}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	cat := NewCatalog(src, 5*time.Minute, clock.Now, nil)
	ctx := context.Background()

	sets, err := cat.GetRules(ctx, constants.StockOut, false)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	require.Equal(t, 1, src.fetches)

	clock.Advance(4 * time.Minute)
	_, err = cat.GetRules(ctx, constants.StockOut, false)
	require.NoError(t, err)
	require.Equal(t, 1, src.fetches, "within TTL: no refetch")

	clock.Advance(2 * time.Minute)
	_, err = cat.GetRules(ctx, constants.StockOut, false)
	require.NoError(t, err)
	require.Equal(t, 2, src.fetches, "past TTL: refetched")
}

func TestCatalogCachePerKind(t *testing.T) {
	t.Parallel()

	src := &fakeSource{sets: []RuleSet{boothRuleSet()}}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	cat := NewCatalog(src, 5*time.Minute, clock.Now, nil)
	ctx := context.Background()

	_, err := cat.GetRules(ctx, constants.StockOut, false)
	require.NoError(t, err)
	_, err = cat.GetRules(ctx, constants.StockIn, false)
	require.NoError(t, err)
	require.Equal(t, 2, src.fetches)
}

func TestCatalogForceRefresh(t *testing.T) {
	t.Parallel()

	src := &fakeSource{sets: []RuleSet{boothRuleSet()}}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	cat := NewCatalog(src, 5*time.Minute, clock.Now, nil)
	ctx := context.Background()

	_, err := cat.GetRules(ctx, constants.StockOut, false)
	require.NoError(t, err)
	_, err = cat.GetRules(ctx, constants.StockOut, true)
	require.NoError(t, err)
	require.Equal(t, 2, src.fetches)
}

func TestCatalogServesStaleOnFetchFailure(t *testing.T) {
	t.Parallel()

	src := &fakeSource{sets: []RuleSet{boothRuleSet()}}
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	cat := NewCatalog(src, 5*time.Minute, clock.Now, nil)
	ctx := context.Background()

	_, err := cat.GetRules(ctx, constants.StockOut, false)
	require.NoError(t, err)
	fetchedAt, ok := cat.LastFetch(constants.StockOut)
	require.True(t, ok)

	src.err = errors.New("rule service down")
	clock.Advance(time.Hour)

	sets, err := cat.GetRules(ctx, constants.StockOut, false)
	require.NoError(t, err, "stale data is served as a fallback, never a hard failure")
	require.Len(t, sets, 1)

	// Last-fetch timestamp only advances on success.
	stillAt, _ := cat.LastFetch(constants.StockOut)
	require.Equal(t, fetchedAt, stillAt)
}

func TestCatalogUnavailableWithoutCache(t *testing.T) {
	t.Parallel()

	src := &fakeSource{err: errors.New("rule service down")}
	cat := NewCatalog(src, 5*time.Minute, nil, nil)

	_, err := cat.GetRules(context.Background(), constants.Monitor, false)
	require.Error(t, err)
	require.ErrorIs(t, err, common.ErrCatalogUnavailable)
}
