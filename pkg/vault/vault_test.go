package vault_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/agentstation/apexvault/pkg/bytestore/memory"
	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/logging"
	"github.com/agentstation/apexvault/pkg/reconcile"
	"github.com/agentstation/apexvault/pkg/records"
	"github.com/agentstation/apexvault/pkg/transfer"
	"github.com/agentstation/apexvault/pkg/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVault(t *testing.T, opts ...memory.Option) (*vault.Store, *memory.Store) {
	t.Helper()
	bs, err := memory.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bs.Close() })
	return vault.New(bs, vault.WithLogger(logging.NewNopLogger())), bs
}

func login(link, username, updatedAt string) records.Record {
	return records.Record{
		Name: "svc", Link: link, Workspace: "acme", Username: username,
		Password: "secret", UpdatedAt: updatedAt,
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("absent key loads empty", func(t *testing.T) {
		v, _ := newVault(t)
		got, err := v.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, 0, v.Len())
	})

	t.Run("corrupt bytes load empty and warn", func(t *testing.T) {
		bs, err := memory.New(memory.WithPreload("apex_workspace_vault_v1", []byte(`{not json`)))
		require.NoError(t, err)
		tl := logging.NewTestLogger(t)
		v := vault.New(bs, vault.WithLogger(tl.Logger))

		got, err := v.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.True(t, tl.ContainsAll(`"level":"warn"`, "Ignoring unreadable vault payload"))
	})

	t.Run("non-array loads empty", func(t *testing.T) {
		v, _ := newVault(t, memory.WithPreload("apex_workspace_vault_v1", []byte(`{"entries":[]}`)))
		got, err := v.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("elements are normalized", func(t *testing.T) {
		payload := `[{"link":"a","workspace":"w","username":"u","password":"p"}, 5]`
		v, _ := newVault(t, memory.WithPreload("apex_workspace_vault_v1", []byte(payload)))
		got, err := v.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.NotEmpty(t, got[0].ID)
		assert.NotEmpty(t, got[0].UpdatedAt)
		assert.Empty(t, got[1].Link)
	})

	t.Run("backend failure is returned", func(t *testing.T) {
		bs, err := memory.New()
		require.NoError(t, err)
		v := vault.New(bs)
		require.NoError(t, bs.Close())

		_, err = v.Load(ctx)
		assert.ErrorIs(t, err, errors.ErrClosed)
	})

	t.Run("custom key", func(t *testing.T) {
		bs, err := memory.New(memory.WithPreload("other", []byte(`[{"id":"x","link":"l"}]`)))
		require.NoError(t, err)
		v := vault.New(bs, vault.WithKey("other"))
		got, err := v.Load(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "other", v.Key())
	})
}

func TestUpsertPersists(t *testing.T) {
	ctx := context.Background()
	v, bs := newVault(t)

	updated, err := v.Upsert(ctx, login("https://mail", "jo", "2024-01-01T00:00:00.000Z"))
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = v.Upsert(ctx, login("HTTPS://MAIL", "jo", "2024-02-01T00:00:00.000Z"))
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, 1, v.Len())

	reloaded := vault.New(bs)
	got, err := reloaded.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "HTTPS://MAIL", got[0].Link)
	assert.Equal(t, v.Records(), got)
}

func TestUpsertRecordSummary(t *testing.T) {
	v, _ := newVault(t)
	res, err := v.UpsertRecord(context.Background(), login("a", "u", ""))
	require.NoError(t, err)
	assert.Equal(t, "Saved 1 entry.", res.Summary())
	assert.NotEmpty(t, res.Record.ID)

	fetched, err := v.Get(res.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Record, fetched)
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	v, _ := newVault(t)

	res, err := v.UpsertRecord(ctx, login("a", "u", "t"))
	require.NoError(t, err)
	_, err = v.Upsert(ctx, login("b", "u", "t"))
	require.NoError(t, err)

	deleted, err := v.DeleteByID(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, 2, v.Len())

	deleted, err = v.DeleteByID(ctx, res.Record.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 1, v.Len())

	_, err = v.Get(res.Record.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	v, bs := newVault(t)
	_, err := v.Upsert(ctx, login("a", "u", "t"))
	require.NoError(t, err)

	require.NoError(t, v.Clear(ctx))
	assert.Equal(t, 0, v.Len())

	data, ok, err := bs.Get(ctx, "apex_workspace_vault_v1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(data))
}

func TestSorted(t *testing.T) {
	ctx := context.Background()
	v, _ := newVault(t)
	for i, ts := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		_, err := v.Upsert(ctx, login(fmt.Sprintf("l%d", i), "u", ts))
		require.NoError(t, err)
	}

	sorted := v.Sorted()
	assert.Equal(t, "2024-03-01", sorted[0].UpdatedAt)
	assert.Equal(t, "2024-01-01", sorted[2].UpdatedAt)
	assert.Equal(t, "2024-01-01", v.Records()[0].UpdatedAt, "storage order is preserved")
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("merge reports counts", func(t *testing.T) {
		v, _ := newVault(t)
		_, err := v.Upsert(ctx, login("a", "u", "2024-01-01T00:00:00.000Z"))
		require.NoError(t, err)

		payload := `{"entries":[
			{"link":"A","workspace":"acme","username":"u","password":"new","updatedAt":"2024-05-01T00:00:00.000Z"},
			{"link":"b","workspace":"acme","username":"u","password":"p"},
			{"link":"c"}
		]}`
		res, err := v.Import(ctx, []byte(payload), reconcile.ModeMerge)
		require.NoError(t, err)
		assert.Equal(t, "Merged: +1 added, 1 updated. Total 2.", res.Summary())
		assert.Equal(t, 2, v.Len())
	})

	t.Run("invalid payload leaves the vault unchanged", func(t *testing.T) {
		v, bs := newVault(t)
		_, err := v.Upsert(ctx, login("a", "u", "t"))
		require.NoError(t, err)
		before, _, _ := bs.Get(ctx, "apex_workspace_vault_v1")

		for _, payload := range []string{`nope`, `"str"`, `{"schema":"x"}`, `null`} {
			res, err := v.Import(ctx, []byte(payload), reconcile.ModeReplace)
			assert.Nil(t, res)
			assert.True(t, errors.IsInvalidFormat(err), payload)
		}

		after, _, _ := bs.Get(ctx, "apex_workspace_vault_v1")
		assert.Equal(t, before, after)
		assert.Equal(t, 1, v.Len())
	})

	t.Run("export then replace import round trips", func(t *testing.T) {
		src, _ := newVault(t)
		_, err := src.Upsert(ctx, login("a", "u", "2024-01-01T00:00:00.000Z"))
		require.NoError(t, err)
		_, err = src.Upsert(ctx, login("b", "u", "2024-01-02T00:00:00.000Z"))
		require.NoError(t, err)

		data, err := src.Export(ctx, transfer.WithExportedAt("2024-06-01T00:00:00.000Z"))
		require.NoError(t, err)

		dst, _ := newVault(t)
		_, err = dst.Upsert(ctx, login("zzz", "u", "t"))
		require.NoError(t, err)

		res, err := dst.Import(ctx, data, reconcile.ModeReplace)
		require.NoError(t, err)
		assert.Equal(t, "Imported 2 entries (replaced).", res.Summary())
		assert.Equal(t, src.Records(), dst.Records())
	})
}

func TestFailedSaveKeepsState(t *testing.T) {
	ctx := context.Background()
	bs, err := memory.New(
		memory.WithPreload("apex_workspace_vault_v1", []byte(`[{"id":"1","link":"a","workspace":"w","username":"u","password":"p","updatedAt":"t"}]`)),
		memory.WithReadOnly(true),
	)
	require.NoError(t, err)
	v := vault.New(bs, vault.WithLogger(logging.NewNopLogger()))
	_, err = v.Load(ctx)
	require.NoError(t, err)

	_, err = v.Upsert(ctx, login("b", "u", "t"))
	assert.ErrorIs(t, err, errors.ErrReadOnly)
	assert.Equal(t, 1, v.Len())

	_, err = v.DeleteByID(ctx, "1")
	assert.Error(t, err)
	assert.Equal(t, 1, v.Len())
}

func TestConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	v, _ := newVault(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := v.Upsert(ctx, login(fmt.Sprintf("l%d", i%10), "u", "t"))
			assert.NoError(t, err)
			_ = v.Sorted()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, v.Len())
}
