package core

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(t *testing.T) (*RedisViewRegistry, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r, err := NewRedisViewRegistryWithNamespace("redis://"+mr.Addr(), "viewkit-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestRedisPublishAndGet(t *testing.T) {
	r, _ := newTestPublisher(t)
	ctx := context.Background()

	d, err := NewViewDescriptor(NewWidget("hotspots", "Hotspots"), &StaticMetadata{
		Sections:     []string{SectionResource},
		Categories:   []string{"Risk"},
		WidgetScopes: []string{"GLOBAL"},
		Info:         "Riskiest components",
	})
	require.NoError(t, err)
	require.NoError(t, r.Publish(ctx, d))

	record, err := r.Get(ctx, "hotspots")
	require.NoError(t, err)
	assert.Equal(t, "hotspots", record.ID)
	assert.Equal(t, "Hotspots", record.Title)
	assert.Equal(t, r.NodeID(), record.NodeID)
	assert.Equal(t, []string{SectionResource}, record.Sections)
	assert.Equal(t, []string{"Risk"}, record.Categories)
	assert.True(t, record.IsWidget)
	assert.False(t, record.IsPage)
	assert.True(t, record.IsGlobal)
	assert.Equal(t, "Riskiest components", record.Description)
	assert.False(t, record.PublishedAt.IsZero())
}

func TestRedisPublishNilDescriptor(t *testing.T) {
	r, _ := newTestPublisher(t)
	err := r.Publish(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilView)
}

func TestRedisGetMissing(t *testing.T) {
	r, _ := newTestPublisher(t)
	_, err := r.Get(context.Background(), "nope")
	assert.True(t, IsNotFound(err), "error = %v, want not-found", err)
}

func TestRedisListSection(t *testing.T) {
	r, _ := newTestPublisher(t)
	ctx := context.Background()

	for _, id := range []string{"one", "two"} {
		d, err := NewViewDescriptor(NewPage(id, id), &StaticMetadata{
			Sections: []string{SectionConfiguration},
		})
		require.NoError(t, err)
		require.NoError(t, r.Publish(ctx, d))
	}
	other, err := NewViewDescriptor(NewPage("elsewhere", "Elsewhere"), nil)
	require.NoError(t, err)
	require.NoError(t, r.Publish(ctx, other))

	records, err := r.ListSection(ctx, SectionConfiguration)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	home, err := r.ListSection(ctx, SectionHome)
	require.NoError(t, err)
	require.Len(t, home, 1)
	assert.Equal(t, "elsewhere", home[0].ID)
}

func TestRedisListCategory(t *testing.T) {
	r, _ := newTestPublisher(t)
	ctx := context.Background()

	d, err := NewViewDescriptor(NewWidget("trend", "Trend"), &StaticMetadata{
		Categories: []string{"History", "Charts"},
	})
	require.NoError(t, err)
	require.NoError(t, r.Publish(ctx, d))

	for _, category := range []string{"History", "Charts"} {
		records, err := r.ListCategory(ctx, category)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "trend", records[0].ID)
	}
}

func TestRedisWithdraw(t *testing.T) {
	r, _ := newTestPublisher(t)
	ctx := context.Background()

	d, err := NewViewDescriptor(NewPage("temp", "Temp"), &StaticMetadata{
		Sections: []string{SectionHome},
	})
	require.NoError(t, err)
	require.NoError(t, r.Publish(ctx, d))
	require.NoError(t, r.Withdraw(ctx, "temp"))

	_, err = r.Get(ctx, "temp")
	assert.True(t, IsNotFound(err))

	records, err := r.ListSection(ctx, SectionHome)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Withdrawing again reports not-found.
	err = r.Withdraw(ctx, "temp")
	assert.True(t, IsNotFound(err))
}

func TestRedisRecordExpiry(t *testing.T) {
	r, mr := newTestPublisher(t)
	r.SetTTL(10 * time.Second)
	ctx := context.Background()

	d, err := NewViewDescriptor(NewPage("short", "Short"), nil)
	require.NoError(t, err)
	require.NoError(t, r.Publish(ctx, d))

	mr.FastForward(11 * time.Second)

	_, err = r.Get(ctx, "short")
	assert.True(t, IsNotFound(err), "record should expire with its TTL")

	// Expired records are skipped when listing from a live index.
	records, err := r.ListSection(ctx, SectionHome)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRedisRefreshExtendsTTL(t *testing.T) {
	r, mr := newTestPublisher(t)
	r.SetTTL(10 * time.Second)
	ctx := context.Background()

	d, err := NewViewDescriptor(NewPage("kept", "Kept"), nil)
	require.NoError(t, err)
	require.NoError(t, r.Publish(ctx, d))

	mr.FastForward(6 * time.Second)
	require.NoError(t, r.Refresh(ctx, "kept"))
	mr.FastForward(6 * time.Second)

	_, err = r.Get(ctx, "kept")
	assert.NoError(t, err, "refreshed record should survive past the original TTL")
}

func TestRedisInvalidURL(t *testing.T) {
	_, err := NewRedisViewRegistry("not-a-url")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
