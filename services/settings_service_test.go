package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

type fakeSettingsStore struct {
	mu    sync.Mutex
	rows  map[string]string
	loads int
	err   error
}

func (f *fakeSettingsStore) LoadSettings(context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string, len(f.rows))
	for k, v := range f.rows {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSettingsStore) SaveSettings(_ context.Context, rows map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[string]string{}
	}
	for k, v := range rows {
		f.rows[k] = v
	}
	return nil
}

type fakeSettingsCache struct {
	mu          sync.Mutex
	rows        map[string]string
	invalidated int
	getErr      error
}

func (f *fakeSettingsCache) GetSettings(context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, f.getErr
}

func (f *fakeSettingsCache) SetSettings(_ context.Context, rows map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = rows
	return nil
}

func (f *fakeSettingsCache) InvalidateSettings(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = nil
	f.invalidated++
	return nil
}

func (f *fakeSettingsCache) cached() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows
}

func newTestSettingsService(store *fakeSettingsStore, cache *fakeSettingsCache) *SettingsService {
	cfg := &structs.Config{Encryption: &structs.EncryptionConfig{Key: testEncryptionKey}}
	return NewSettingsService(gecho.NewDefaultLogger(), cfg, store, cache)
}

func TestSettingsDefaults(t *testing.T) {
	ss := newTestSettingsService(&fakeSettingsStore{}, &fakeSettingsCache{})

	s, err := ss.GetSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("18").Equal(s.GSTPercentage))
	assert.True(t, dec("99").Equal(s.DomesticShippingCharge))
	assert.True(t, dec("999").Equal(s.InternationalShippingCharge))
	assert.True(t, dec("2000").Equal(s.FreeShippingThreshold))
	assert.True(t, s.CODEnabled)
	assert.False(t, s.UPIEnabled)
	assert.Empty(t, s.AdminNotificationEmails)
}

func TestSettingsReadThrough(t *testing.T) {
	store := &fakeSettingsStore{rows: map[string]string{structs.SettingGSTPercentage: "12"}}
	cache := &fakeSettingsCache{}
	ss := newTestSettingsService(store, cache)

	s, err := ss.GetSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("12").Equal(s.GSTPercentage))

	assert.Eventually(t, func() bool { return cache.cached() != nil }, time.Second, 5*time.Millisecond)

	_, err = ss.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads, "second read is served from cache")
}

func TestSettingsCacheErrorFallsBackToStore(t *testing.T) {
	store := &fakeSettingsStore{rows: map[string]string{structs.SettingCODEnabled: "false"}}
	cache := &fakeSettingsCache{getErr: errors.New("redis down")}
	ss := newTestSettingsService(store, cache)

	s, err := ss.GetSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, s.CODEnabled)
}

func TestSettingsStoreErrorIsReturned(t *testing.T) {
	ss := newTestSettingsService(&fakeSettingsStore{err: errors.New("db down")}, &fakeSettingsCache{})
	_, err := ss.GetSettings(context.Background())
	assert.Error(t, err)
}

func TestSettingsInvalidValuesUseDefaults(t *testing.T) {
	store := &fakeSettingsStore{rows: map[string]string{
		structs.SettingGSTPercentage: "eighteen",
		structs.SettingCODEnabled:    "maybe",
	}}
	ss := newTestSettingsService(store, &fakeSettingsCache{})

	s, err := ss.GetSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("18").Equal(s.GSTPercentage))
	assert.True(t, s.CODEnabled)
}

func TestUpdateSettingsEncryptsSecretAndInvalidates(t *testing.T) {
	store := &fakeSettingsStore{}
	cache := &fakeSettingsCache{rows: map[string]string{"stale": "yes"}}
	ss := newTestSettingsService(store, cache)

	gst := dec("12")
	secret := "rzp_secret_value"
	enabled := true
	admin, err := ss.UpdateSettings(context.Background(), &structs.SettingsUpdateRequest{
		GSTPercentage:           &gst,
		RazorpayEnabled:         &enabled,
		RazorpayKeySecret:       &secret,
		AdminNotificationEmails: []string{"a@woodzire.com", " b@woodzire.com "},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.invalidated)
	stored := store.rows[structs.SettingRazorpayKeySecret]
	assert.NotEmpty(t, stored)
	assert.NotEqual(t, secret, stored)
	plain, err := lib.Decrypt(stored, testEncryptionKey)
	require.NoError(t, err)
	assert.Equal(t, secret, plain)

	assert.True(t, admin.HasRazorpaySecret)
	assert.Equal(t, secret, admin.RazorpayKeySecret)
	assert.True(t, gst.Equal(admin.GSTPercentage))
	assert.True(t, admin.RazorpayEnabled)
	assert.Equal(t, []string{"a@woodzire.com", "b@woodzire.com"}, admin.AdminNotificationEmails)
}

func TestUpdateSettingsRejectsNegativeMoney(t *testing.T) {
	store := &fakeSettingsStore{}
	ss := newTestSettingsService(store, &fakeSettingsCache{})

	negative := decimal.NewFromInt(-1)
	_, err := ss.UpdateSettings(context.Background(), &structs.SettingsUpdateRequest{DomesticShippingCharge: &negative})

	var ve *lib.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, store.rows)
}

func TestPublicSettingsHideSecret(t *testing.T) {
	s := &structs.StoreSettings{RazorpayKeyID: "rzp_live", RazorpayKeySecret: "hidden"}
	assert.Equal(t, "rzp_live", s.Public().RazorpayKeyID)
}
