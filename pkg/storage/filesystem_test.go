package storage

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOverwritesAndOpens(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "2016001-16-17-2.ics", []byte("first"), "text/calendar"))
	require.NoError(t, store.Save(ctx, "2016001-16-17-2.ics", []byte("second"), "text/calendar"))

	rc, err := store.Open(ctx, "2016001-16-17-2.ics")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(body))

	entries, err := os.ReadDir(store.baseDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorageConcurrentSavesLastWriteWins(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	payload := []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Save(ctx, "k.ics", payload, "text/calendar"))
		}()
	}
	wg.Wait()

	rc, err := store.Open(ctx, "k.ics")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, payload, body)
}

func TestLocalStorageMissingAndInvalidNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Open(ctx, "absent.ics")
	assert.ErrorIs(t, err, ErrNotExist)

	for _, name := range []string{"", "../x.ics", "a/b.ics", ".hidden"} {
		assert.Error(t, store.Save(ctx, name, []byte("x"), ""), name)
	}
}
