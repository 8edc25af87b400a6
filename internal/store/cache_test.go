package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mgy583/account-book/internal/api"
	"github.com/mgy583/account-book/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "http://localhost:3000/api"

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCredentialLifecycle(t *testing.T) {
	s := openTest(t)

	_, err := s.LoadCredential(testURL)
	require.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, s.SaveCredential(testURL, api.Credential{Token: "t1", Username: "alice"}))
	require.NoError(t, s.SaveCredential(testURL, api.Credential{Token: "t2", Username: "alice"}))

	cred, err := s.LoadCredential(testURL)
	require.NoError(t, err)
	assert.Equal(t, api.Credential{Token: "t2", Username: "alice"}, cred)

	_, err = s.LoadCredential("http://other.example/api")
	assert.ErrorIs(t, err, ErrNoCredential, "credentials are scoped to one service")

	require.NoError(t, s.ClearCredential())
	_, err = s.LoadCredential(testURL)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openTest(t)

	_, err := s.LoadSnapshot(testURL)
	require.ErrorIs(t, err, ErrNoSnapshot)

	fetched := time.Date(2025, time.June, 3, 8, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{ID: "b", Name: "午餐", Type: "餐饮", Amount: 25, Currency: "CNY", Date: "2025-06-02"},
		{ID: "a", Name: "书", Type: "购物", Amount: 30.5, Currency: "USD", Remark: "gift", Date: ""},
	}
	require.NoError(t, s.SaveSnapshot(Snapshot{BaseURL: testURL, Orders: orders, ServerTotal: 9, FetchedAt: fetched}))

	snap, err := s.LoadSnapshot(testURL)
	require.NoError(t, err)
	assert.Equal(t, orders, snap.Orders, "order and fields survive")
	assert.Equal(t, 9, snap.ServerTotal)
	assert.True(t, fetched.Equal(snap.FetchedAt))

	require.NoError(t, s.SaveSnapshot(Snapshot{BaseURL: testURL, Orders: orders[:1], FetchedAt: fetched}))
	snap, err = s.LoadSnapshot(testURL)
	require.NoError(t, err)
	assert.Len(t, snap.Orders, 1, "snapshots replace, never merge")
}

func TestClearCredentialDropsSnapshot(t *testing.T) {
	s := openTest(t)
	require.NoError(t, s.SaveCredential(testURL, api.Credential{Token: "t"}))
	require.NoError(t, s.SaveSnapshot(Snapshot{BaseURL: testURL, Orders: []model.Order{{ID: "x"}}, FetchedAt: time.Now()}))

	require.NoError(t, s.ClearCredential())
	_, err := s.LoadSnapshot(testURL)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}

func TestSaveCredential_NewIdentityDropsSnapshot(t *testing.T) {
	orders := []model.Order{{ID: "1", Name: "alice-private"}}

	tests := []struct {
		name     string
		url      string
		cred     api.Credential
		wantKept bool
	}{
		{"same user again", testURL, api.Credential{Token: "t2", Username: "alice"}, true},
		{"different user", testURL, api.Credential{Token: "t3", Username: "bob"}, false},
		{"same user other service", "http://other.example/api", api.Credential{Token: "t4", Username: "alice"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTest(t)
			require.NoError(t, s.SaveCredential(testURL, api.Credential{Token: "t1", Username: "alice"}))
			require.NoError(t, s.SaveSnapshot(Snapshot{BaseURL: testURL, Orders: orders, FetchedAt: time.Now()}))

			require.NoError(t, s.SaveCredential(tt.url, tt.cred))

			snap, err := s.LoadSnapshot(testURL)
			if tt.wantKept {
				require.NoError(t, err)
				assert.Equal(t, orders, snap.Orders)
				return
			}
			assert.ErrorIs(t, err, ErrNoSnapshot)

			cred, err := s.LoadCredential(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.cred, cred)
		})
	}
}
