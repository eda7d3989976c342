package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL, 5*time.Second, StaticToken("test-token"), zerolog.Nop())
}

func TestClient_Headers(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}))

	_, err := client.ListBookingsByUser(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, 5*time.Second, nil, zerolog.Nop())
	_, err := client.SearchProviders(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_Unauthorized(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.ListBookingsByUser(context.Background(), "42")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_StatusError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))

	_, err := client.ListBookingsByUser(context.Background(), "42")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.Code)
	assert.Equal(t, "boom", se.Message)
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, nil, zerolog.Nop())

	_, err := client.ListBookingsByUser(context.Background(), "42")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestClient_NoContentIsNullPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	updated, err := client.UpdateBookingStatus(context.Background(), "b1", "ACCEPTED", "")
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestClient_UnparsableBodyIsNullPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))

	updated, err := client.UpdateBookingStatus(context.Background(), "b1", "ACCEPTED", "")
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestClient_CancelBooking(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.CancelBooking(context.Background(), "b17"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/bookings/b17", gotPath)
}

func TestClient_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/login", r.URL.Path)
			w.Write([]byte(`{"token":"tok","userId":"42","userName":"Ann","email":"a@b.c"}`))
		}))

		resp, err := client.Login(context.Background(), "a@b.c", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok", resp.Token)
		assert.Equal(t, "42", resp.UserID)
	})

	t.Run("RejectedWithMessage", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"message":"Invalid credentials"}`))
		}))

		resp, err := client.Login(context.Background(), "a@b.c", "wrong")
		require.NoError(t, err)
		assert.Empty(t, resp.Token)
		assert.Equal(t, "Invalid credentials", resp.Message)
	})
}

func TestClient_ProviderByUser(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/providers/user/42", r.URL.Path)
			w.Write([]byte(`{"id":"p1","name":"John","service":"Plumbing","location":"Boston"}`))
		}))

		provider, err := client.ProviderByUser(context.Background(), "42")
		require.NoError(t, err)
		require.NotNil(t, provider)
		assert.Equal(t, "p1", provider.ID)
	})

	t.Run("NotFound404", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		provider, err := client.ProviderByUser(context.Background(), "42")
		require.NoError(t, err)
		assert.Nil(t, provider)
	})

	t.Run("EmptyDocument", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))

		provider, err := client.ProviderByUser(context.Background(), "42")
		require.NoError(t, err)
		assert.Nil(t, provider)
	})
}

func TestClient_SearchProviders(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id":"p1","name":"John"},{"id":"p2","name":"Jane"}]`))
	}))

	providers, err := client.SearchProviders(context.Background(), "Plumbing", "New York")
	require.NoError(t, err)
	assert.Len(t, providers, 2)
	assert.Contains(t, gotQuery, "service=Plumbing")
	assert.Contains(t, gotQuery, "location=New+York")
}

func TestClient_ProvidersCache(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	var hits int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`[{"id":"p1","name":"John"}]`))
	}))
	client.UseRedisCache(redisClient, time.Minute)

	ctx := context.Background()

	first, err := client.SearchProviders(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := client.SearchProviders(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, hits, "second unfiltered listing should come from cache")

	// Filtered searches bypass the cache
	_, err = client.SearchProviders(ctx, "Plumbing", "")
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestClient_UpdateStatus_ServerWins(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"b1","status":"REJECTED"}`))
	}))

	updated, err := client.UpdateBookingStatus(context.Background(), "b1", "ACCEPTED", "")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "REJECTED", updated.Status)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&StatusError{Code: 404}))
	assert.False(t, IsNotFound(&StatusError{Code: 500}))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(nil))
}
