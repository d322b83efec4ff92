// SPDX-License-Identifier: MIT

package guide

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgrammeAt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bbc1", r.URL.Query().Get("channel"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"News at Ten","description":"Headlines","stop":1751576400}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	prog, err := c.ProgrammeAt(context.Background(), "bbc1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, "News at Ten", prog.Title)
	assert.Equal(t, "Headlines", prog.Description)
	assert.Equal(t, int64(1751576400), prog.Stop.Unix())
}

func TestProgrammeAtServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.ProgrammeAt(context.Background(), "bbc1", time.Now())
	assert.Error(t, err)
}

func TestProgrammeAtUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", 100*time.Millisecond)
	_, err := c.ProgrammeAt(context.Background(), "bbc1", time.Now())
	assert.Error(t, err)
}

func TestProgrammeAtCollapsesConcurrentLookups(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"title":"Shared","stop":0}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	at := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prog, err := c.ProgrammeAt(context.Background(), "bbc1", at)
			assert.NoError(t, err)
			assert.Equal(t, "Shared", prog.Title)
		}()
	}

	// Give the goroutines time to pile onto the singleflight key.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}
