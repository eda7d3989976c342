package bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fixnear/internal/api"
	"fixnear/internal/events"
	"fixnear/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T, handler http.Handler, filter string) *Tracker {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL, 5*time.Second, api.StaticToken("tok"), zerolog.Nop())
	return NewTracker(client, events.NewEventBus(), filter, zerolog.Nop())
}

func bookingsJSON(bookings ...models.Booking) []byte {
	data, _ := json.Marshal(bookings)
	return data
}

func TestTracker_FetchForCustomer(t *testing.T) {
	t.Run("NormalizesAndReplaces", func(t *testing.T) {
		tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "42", r.URL.Query().Get("userId"))
			w.Write([]byte(`[
				{"id":"b1","status":"PENDING"},
				{"id":"b2","status":"Accepted"},
				{"id":"b3"}
			]`))
		}), models.FilterAll)

		require.NoError(t, tracker.FetchForCustomer(context.Background(), "42"))

		got := tracker.Bookings()
		require.Len(t, got, 3)
		assert.Equal(t, models.StatusPending, got[0].Status)
		assert.Equal(t, models.StatusAccepted, got[1].Status)
		assert.Equal(t, models.StatusPending, got[2].Status, "unset status defaults to pending")
		assert.Empty(t, tracker.Err())
	})

	t.Run("EmptySetNoError", func(t *testing.T) {
		tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}), models.FilterAll)

		require.NoError(t, tracker.FetchForCustomer(context.Background(), "42"))
		assert.Empty(t, tracker.Bookings())
		assert.Empty(t, tracker.Err())
	})

	t.Run("FetchFailure", func(t *testing.T) {
		tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}), models.FilterAll)

		err := tracker.FetchForCustomer(context.Background(), "42")
		require.Error(t, err)
		assert.Equal(t, "Failed to load your bookings", tracker.Err())
	})
}

func TestTracker_FetchForProvider(t *testing.T) {
	t.Run("ResolvesProfileThenFetches", func(t *testing.T) {
		tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/providers/user/42":
				w.Write([]byte(`{"id":"p7","name":"Ann's Plumbing"}`))
			case "/api/bookings":
				assert.Equal(t, "p7", r.URL.Query().Get("providerId"))
				w.Write(bookingsJSON(models.Booking{ID: "b1", Status: "PENDING"}))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}), models.StatusPending)

		require.NoError(t, tracker.FetchForProvider(context.Background(), "42"))

		assert.Equal(t, "p7", tracker.ProviderID())
		assert.False(t, tracker.ProviderMissing())
		require.Len(t, tracker.Bookings(), 1)
	})

	t.Run("MissingProfileIsDistinctState", func(t *testing.T) {
		tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}), models.StatusPending)

		err := tracker.FetchForProvider(context.Background(), "42")
		assert.ErrorIs(t, err, ErrNoProviderProfile)
		assert.True(t, tracker.ProviderMissing())
		assert.Empty(t, tracker.Bookings())
	})
}

func fetched(t *testing.T, handler http.HandlerFunc, filter string, set ...models.Booking) *Tracker {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/bookings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write(bookingsJSON(set...))
			return
		}
		handler(w, r)
	})
	mux.HandleFunc("/", handler)

	tracker := newTracker(t, mux, filter)
	require.NoError(t, tracker.FetchForCustomer(context.Background(), "42"))
	return tracker
}

func TestTracker_Cancel(t *testing.T) {
	t.Run("RemovesRegardlessOfStatus", func(t *testing.T) {
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}, models.FilterAll,
			models.Booking{ID: "X", Status: "accepted"},
			models.Booking{ID: "Y", Status: "pending"},
		)

		require.NoError(t, tracker.Cancel(context.Background(), "X"))

		got := tracker.Bookings()
		require.Len(t, got, 1)
		assert.Equal(t, "Y", got[0].ID)
	})

	t.Run("FailureLeavesSetUnchanged", func(t *testing.T) {
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}, models.FilterAll, models.Booking{ID: "X", Status: "pending"})

		err := tracker.Cancel(context.Background(), "X")
		require.Error(t, err)
		assert.Len(t, tracker.Bookings(), 1)
		assert.Equal(t, "Failed to cancel booking", tracker.Err())
	})
}

func TestTracker_Transitions(t *testing.T) {
	t.Run("AcceptServerSilenceAssumesRequested", func(t *testing.T) {
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}, models.StatusPending, models.Booking{ID: "b1", Status: "pending"})

		require.NoError(t, tracker.Accept(context.Background(), "b1"))
		assert.Equal(t, models.StatusAccepted, tracker.Bookings()[0].Status)
	})

	t.Run("ServerResponseWinsOverRequested", func(t *testing.T) {
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"b1","status":"REJECTED"}`))
		}, models.StatusPending, models.Booking{ID: "b1", Status: "pending"})

		require.NoError(t, tracker.Accept(context.Background(), "b1"))
		assert.Equal(t, models.StatusRejected, tracker.Bookings()[0].Status)
	})

	t.Run("RejectSendsReason", func(t *testing.T) {
		var gotBody map[string]string
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusNoContent)
		}, models.StatusPending, models.Booking{ID: "b1", Status: "pending"})

		require.NoError(t, tracker.Reject(context.Background(), "b1", "double booked"))

		assert.Equal(t, "REJECTED", gotBody["status"])
		assert.Equal(t, "double booked", gotBody["reason"])
		assert.Equal(t, models.StatusRejected, tracker.Bookings()[0].Status)
	})

	t.Run("Complete", func(t *testing.T) {
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"b1","status":"COMPLETED"}`))
		}, models.StatusAccepted, models.Booking{ID: "b1", Status: "accepted"})

		require.NoError(t, tracker.Complete(context.Background(), "b1"))
		assert.Equal(t, models.StatusCompleted, tracker.Bookings()[0].Status)
	})

	t.Run("FailureLeavesStatusUnchanged", func(t *testing.T) {
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, models.StatusPending, models.Booking{ID: "b1", Status: "pending"})

		err := tracker.Accept(context.Background(), "b1")
		require.Error(t, err)
		assert.Equal(t, models.StatusPending, tracker.Bookings()[0].Status)
		assert.Equal(t, "Failed to accept booking", tracker.Err())
	})
}

func TestTracker_AddReview(t *testing.T) {
	t.Run("SetsRatingReviewAndStatus", func(t *testing.T) {
		var gotBody map[string]any
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusNoContent)
		}, models.FilterAll, models.Booking{ID: "b1", Status: "completed"})

		require.NoError(t, tracker.AddReview(context.Background(), "b1", 5, "Great job"))

		got := tracker.Bookings()[0]
		assert.Equal(t, 5, got.Rating)
		assert.Equal(t, "Great job", got.Review)
		assert.Equal(t, models.StatusCompleted, got.Status, "status defaults to completed when server is silent")
		assert.Equal(t, float64(5), gotBody["rating"])
	})

	t.Run("ServerStatusWins", func(t *testing.T) {
		tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"b1","status":"COMPLETED","rating":4}`))
		}, models.FilterAll, models.Booking{ID: "b1", Status: "completed"})

		require.NoError(t, tracker.AddReview(context.Background(), "b1", 4, ""))
		assert.Equal(t, models.StatusCompleted, tracker.Bookings()[0].Status)
	})

	t.Run("RatingOutOfRange", func(t *testing.T) {
		tracker := newTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should be made")
		}), models.FilterAll)

		assert.Error(t, tracker.AddReview(context.Background(), "b1", 0, ""))
		assert.Error(t, tracker.AddReview(context.Background(), "b1", 6, ""))
	})
}

func TestTracker_Filtering(t *testing.T) {
	set := []models.Booking{
		{ID: "b1", Status: "pending"},
		{ID: "b2", Status: "accepted"},
		{ID: "b3", Status: "pending"},
		{ID: "b4", Status: "completed"},
	}
	tracker := fetched(t, func(w http.ResponseWriter, r *http.Request) {}, models.FilterAll, set...)

	t.Run("All", func(t *testing.T) {
		assert.Len(t, tracker.Filtered(), 4)
	})

	t.Run("ByStatus", func(t *testing.T) {
		tracker.SetFilter(models.StatusPending)
		got := tracker.Filtered()
		require.Len(t, got, 2)
		assert.Equal(t, "b1", got[0].ID)
		assert.Equal(t, "b3", got[1].ID)
	})

	t.Run("InvalidFilterIgnored", func(t *testing.T) {
		tracker.SetFilter("bogus")
		assert.Equal(t, models.StatusPending, tracker.Filter())
	})

	t.Run("Counts", func(t *testing.T) {
		counts := tracker.CountByStatus()
		assert.Equal(t, 4, counts[models.FilterAll])
		assert.Equal(t, 2, counts[models.StatusPending])
		assert.Equal(t, 1, counts[models.StatusAccepted])
		assert.Equal(t, 1, counts[models.StatusCompleted])
		assert.Equal(t, 0, counts[models.StatusRejected])
	})
}

func TestTracker_DefaultFilter(t *testing.T) {
	client := api.NewClient("http://localhost", time.Second, nil, zerolog.Nop())
	assert.Equal(t, models.FilterAll, NewTracker(client, events.NewEventBus(), "", zerolog.Nop()).Filter())
	assert.Equal(t, models.StatusPending, NewTracker(client, events.NewEventBus(), "pending", zerolog.Nop()).Filter())
}
