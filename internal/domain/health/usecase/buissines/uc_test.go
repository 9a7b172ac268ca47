package buissines

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/sidtheone/ecoticker-sub001/pkg/errors"
)

// mockHistoryReader is a mock implementation of deps.HistoryReader
type mockHistoryReader struct {
	lastRecordedAtFunc func(ctx context.Context) (*time.Time, error)
}

func (m *mockHistoryReader) LastRecordedAt(ctx context.Context) (*time.Time, error) {
	if m.lastRecordedAtFunc != nil {
		return m.lastRecordedAtFunc(ctx)
	}
	return nil, nil
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCheck(t *testing.T) {
	now := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name      string
		last      *time.Time
		wantStale bool
	}{
		{name: "no history", last: nil, wantStale: true},
		{name: "batch today", last: day(2026, 10, 16), wantStale: false},
		{name: "batch yesterday", last: day(2026, 10, 15), wantStale: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockHistoryReader{
				lastRecordedAtFunc: func(ctx context.Context) (*time.Time, error) { return tt.last, nil },
			}
			uc := NewUseCaseWithClock(repo, func() time.Time { return now }, zerolog.Nop())

			resp, err := uc.Check(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.last, resp.LastBatchAt)
			assert.Equal(t, tt.wantStale, resp.IsStale)
		})
	}
}

func TestCheck_UsesUTCDay(t *testing.T) {
	// 01:00 on the 17th at UTC+3 is still the 16th in UTC
	now := time.Date(2026, 10, 17, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))
	repo := &mockHistoryReader{
		lastRecordedAtFunc: func(ctx context.Context) (*time.Time, error) { return day(2026, 10, 16), nil },
	}
	uc := NewUseCaseWithClock(repo, func() time.Time { return now }, zerolog.Nop())

	resp, err := uc.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.IsStale)
}

func TestCheck_StorageErrorIsGeneric(t *testing.T) {
	repo := &mockHistoryReader{
		lastRecordedAtFunc: func(ctx context.Context) (*time.Time, error) {
			return nil, errors.New("pq: password authentication failed for user \"ecoticker\"")
		},
	}
	uc := NewUseCase(repo, zerolog.Nop())

	_, err := uc.Check(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDatabaseError(err))
	assert.NotContains(t, err.Error(), "password")
}
