package bolt

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "slots.bolt")

	s, err := New(path)
	require.NoError(t, err)

	data, err := s.Load(ctx, "trades")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.Save(ctx, "trades", []byte(`[1]`)))
	require.NoError(t, s.Save(ctx, "trades", []byte(`[1,2]`)))

	data, err = s.Load(ctx, "trades")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	data, err = s.Load(ctx, "trades")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))
}

func TestStoreClosed(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "slots.bolt"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Error(t, s.Save(context.Background(), "trades", []byte(`[]`)))
}

func TestStoreConcurrentAccess(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "slots.bolt"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("slot-%d", i)
			assert.NoError(t, s.Save(ctx, key, []byte(fmt.Sprintf(`[%d]`, i))))
			_, err := s.Load(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	data, err := s.Load(ctx, "slot-3")
	require.NoError(t, err)
	assert.Equal(t, `[3]`, string(data))
}
