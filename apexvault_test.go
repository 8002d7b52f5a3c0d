package apexvault

import (
	"context"
	"testing"
	"time"

	"github.com/agentstation/apexvault/pkg/bytestore"
	"github.com/agentstation/apexvault/pkg/bytestore/memory"
	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/logging"
	"github.com/agentstation/apexvault/pkg/reconcile"
	"github.com/agentstation/apexvault/pkg/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, opts ...Option) (Client, *memory.Store) {
	t.Helper()
	bs, err := memory.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = bs.Close() })

	opts = append([]Option{WithByteStore(bs), WithLogger(logging.NewNopLogger())}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	return c, bs
}

func entry(link, username, updatedAt string) records.Record {
	return records.Record{
		Name: "svc", Link: link, Workspace: "acme", Username: username,
		Password: "pw", UpdatedAt: updatedAt,
	}
}

func TestHooks(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	var added, removed []string
	var updated [][2]string
	c.OnRecordAdded(func(r records.Record) { added = append(added, r.Link) })
	c.OnRecordUpdated(func(old, new records.Record) {
		updated = append(updated, [2]string{old.UpdatedAt, new.UpdatedAt})
	})
	c.OnRecordRemoved(func(r records.Record) { removed = append(removed, r.Link) })

	res, err := c.Upsert(ctx, entry("a", "u", "2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, "Saved 1 entry.", res.Summary())
	assert.Equal(t, []string{"a"}, added)

	_, err = c.Upsert(ctx, entry("A", "u", "2024-02-01"))
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"2024-01-01", "2024-02-01"}}, updated)

	merged, err := c.Merge(ctx, []records.Record{entry("b", "u", "2024-01-01"), entry("a", "u", "2023-01-01")})
	require.NoError(t, err)
	assert.Equal(t, "Merged: +1 added, 0 updated. Total 2.", merged.Summary())
	assert.Equal(t, []string{"a", "b"}, added)
	assert.Len(t, updated, 1, "losing incoming record does not fire")

	_, err = c.DeleteByID(ctx, res.Record.ID+"-unknown")
	require.NoError(t, err)
	assert.Empty(t, removed)

	require.NoError(t, c.Clear(ctx))
	assert.ElementsMatch(t, []string{"A", "b"}, removed)
	assert.Equal(t, 0, c.Len())
}

func TestHooksMayCallBackIntoClient(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	var removed []string
	c.OnRecordAdded(func(r records.Record) {
		c.OnRecordRemoved(func(r records.Record) { removed = append(removed, r.Link) })
		_, err := c.DeleteByID(ctx, r.ID)
		assert.NoError(t, err)
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Upsert(ctx, entry("a", "u", "2024-01-01"))
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Upsert did not return while a hook called back into the client")
	}

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, []string{"a"}, removed)
}

func TestFailedMutationFiresNoHooks(t *testing.T) {
	c, _ := newTestClient(t)
	fired := false
	c.OnRecordAdded(func(records.Record) { fired = true })

	_, err := c.Import(context.Background(), []byte(`{"oops":true}`), reconcile.ModeMerge)
	assert.True(t, errors.IsInvalidFormat(err))
	assert.False(t, fired)
}

func TestReplaceAndExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestClient(t)
	_, err := src.Upsert(ctx, entry("a", "u", "2024-01-01"))
	require.NoError(t, err)

	data, err := src.Export(ctx)
	require.NoError(t, err)

	dst, _ := newTestClient(t)
	_, err = dst.Replace(ctx, []records.Record{entry("zz", "u", "t")})
	require.NoError(t, err)

	res, err := dst.Import(ctx, data, reconcile.ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, "Imported 1 entries (replaced).", res.Summary())
	assert.Equal(t, src.Records(), dst.Records())
	assert.Equal(t, src.Sorted(), dst.Sorted())

	got, err := dst.Get(src.Records()[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Link)
}

func TestNewLoadsPersistedRecords(t *testing.T) {
	ctx := context.Background()
	bs, err := memory.New(memory.WithPreload("custom", []byte(`[{"id":"1","link":"l","workspace":"w","username":"u","password":"p","updatedAt":"t"}]`)))
	require.NoError(t, err)

	c, err := New(WithByteStore(bs), WithStorageKey("custom"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	lazy, err := New(WithByteStore(bs), WithStorageKey("custom"), WithAutoLoad(false))
	require.NoError(t, err)
	assert.Equal(t, 0, lazy.Len())

	var added int
	lazy.OnRecordAdded(func(records.Record) { added++ })
	_, err = lazy.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	require.NoError(t, c.Close())
	_, ok, err := bs.Get(ctx, "custom")
	require.NoError(t, err)
	assert.True(t, ok, "borrowed store stays open")
}

func TestNewOpensConfiguredStorage(t *testing.T) {
	c, err := New(WithStorage(bytestore.Config{Type: bytestore.TypeSQLite, Path: t.TempDir()}))
	require.NoError(t, err)
	_, err = c.Upsert(context.Background(), entry("a", "u", "t"))
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestOptionValidation(t *testing.T) {
	_, err := New(WithByteStore(nil))
	assert.Error(t, err)
	_, err = New(WithStorageKey(""))
	assert.Error(t, err)
	_, err = New(WithStrategy(nil))
	assert.Error(t, err)
	_, err = New(WithStorage(bytestore.Config{Type: "ftp"}))
	assert.Error(t, err)
}

func TestWithStrategy(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t, WithStrategy(reconcile.NewKeepExistingStrategy()))
	_, err := c.Upsert(ctx, entry("a", "u", "2020"))
	require.NoError(t, err)

	res, err := c.Merge(ctx, []records.Record{entry("a", "u", "2030")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, "2020", c.Records()[0].UpdatedAt)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	for _, typ := range []bytestore.Type{bytestore.TypeFiles, bytestore.TypeSQLite} {
		t.Run(string(typ), func(t *testing.T) {
			ctx := context.Background()
			cfg := bytestore.Config{Type: typ, Path: t.TempDir()}

			first, err := New(WithStorage(cfg), WithLogger(logging.NewNopLogger()))
			require.NoError(t, err)
			_, err = first.Upsert(ctx, entry("a", "u", "2024-01-01"))
			require.NoError(t, err)
			_, err = first.Upsert(ctx, entry("b", "u", "2024-01-02"))
			require.NoError(t, err)
			removed, err := first.DeleteByID(ctx, first.Sorted()[0].ID)
			require.NoError(t, err)
			assert.True(t, removed)
			require.NoError(t, first.Close())

			second, err := New(WithStorage(cfg), WithLogger(logging.NewNopLogger()))
			require.NoError(t, err)
			t.Cleanup(func() { _ = second.Close() })

			require.Equal(t, 1, second.Len())
			assert.Equal(t, "a", second.Records()[0].Link)
		})
	}
}
