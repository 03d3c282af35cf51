package favorites

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu     sync.Mutex
	ids    []string
	getErr error
	setErr error
	writes int
}

func (f *fakeStorage) Get(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return append([]string(nil), f.ids...), nil
}

func (f *fakeStorage) Set(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.setErr != nil {
		return f.setErr
	}
	f.ids = append([]string(nil), ids...)
	return nil
}

func (f *fakeStorage) stored() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

func testLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	s := New(context.Background(), nil, testLog())
	defer s.Close()

	require.False(t, s.Has("p-101"))
	s.Toggle("p-101")
	require.True(t, s.Has("p-101"))
	s.Toggle("p-101")
	require.False(t, s.Has("p-101"))
	require.Equal(t, 0, s.Count())
}

func TestAddIsIdempotent(t *testing.T) {
	s := New(context.Background(), nil, testLog())
	defer s.Close()

	s.Add("p-102")
	s.Add("p-102")
	assert.Equal(t, 1, s.Count())

	s.Remove("p-102")
	s.Remove("p-102")
	assert.Equal(t, 0, s.Count())
}

func TestClear(t *testing.T) {
	s := New(context.Background(), nil, testLog())
	defer s.Close()

	s.Add("p-101")
	s.Add("p-106")
	require.Equal(t, 2, s.Count())
	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.IDs())
}

func TestLoadsPersistedMembership(t *testing.T) {
	storage := &fakeStorage{ids: []string{"p-101", "p-106"}}
	s := New(context.Background(), storage, testLog())
	defer s.Close()

	require.NoError(t, s.WaitLoaded(context.Background()))
	assert.True(t, s.Has("p-101"))
	assert.True(t, s.Has("p-106"))
	assert.Equal(t, []string{"p-101", "p-106"}, s.IDs())
}

func TestMutationsWriteBack(t *testing.T) {
	storage := &fakeStorage{}
	s := New(context.Background(), storage, testLog())

	require.NoError(t, s.WaitLoaded(context.Background()))
	s.Add("p-102")
	s.Close() // drains the pending snapshot

	assert.Equal(t, []string{"p-102"}, storage.stored())
}

func TestLoadFailureDegradesToEmpty(t *testing.T) {
	storage := &fakeStorage{getErr: errors.New("storage offline")}
	s := New(context.Background(), storage, testLog())
	defer s.Close()

	require.NoError(t, s.WaitLoaded(context.Background()))
	assert.Equal(t, 0, s.Count())

	// the set stays usable in memory
	s.Add("p-101")
	assert.True(t, s.Has("p-101"))
}

func TestWriteFailureIsSwallowed(t *testing.T) {
	storage := &fakeStorage{setErr: errors.New("storage offline")}
	s := New(context.Background(), storage, testLog())

	require.NoError(t, s.WaitLoaded(context.Background()))
	s.Add("p-101")
	s.Close()

	assert.True(t, s.Has("p-101"))
	assert.Empty(t, storage.stored())
}

func TestWriterKeepsLatestSnapshotOnly(t *testing.T) {
	storage := &fakeStorage{}
	s := New(context.Background(), storage, testLog())

	require.NoError(t, s.WaitLoaded(context.Background()))
	for i := 0; i < 50; i++ {
		s.Toggle("p-101")
		s.Add("p-106")
	}
	s.Close()

	// after an even number of toggles only p-106 remains, and the final
	// persisted snapshot must reflect exactly that
	assert.Equal(t, []string{"p-106"}, storage.stored())

	storage.mu.Lock()
	writes := storage.writes
	storage.mu.Unlock()
	assert.LessOrEqual(t, writes, 101, "writer should coalesce snapshots")
}

func TestWaitLoadedHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	s := &Set{ids: make(map[string]struct{}), loaded: make(chan struct{})}
	err := s.WaitLoaded(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
