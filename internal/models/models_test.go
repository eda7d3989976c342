package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"PENDING", StatusPending},
		{"Accepted", StatusAccepted},
		{"ACCEPTED", StatusAccepted},
		{"rejected", StatusRejected},
		{"COMPLETED", StatusCompleted},
		{"  completed ", StatusCompleted},
		{"", StatusPending},
		{"garbage", StatusPending},
		{"CANCELLED", StatusPending},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeStatus(tc.raw), "raw=%q", tc.raw)
	}
}

func TestBooking_Normalize(t *testing.T) {
	b := &Booking{ID: "b1", Status: "ACCEPTED"}
	b.Normalize()
	assert.Equal(t, StatusAccepted, b.Status)

	b = &Booking{ID: "b2"}
	b.Normalize()
	assert.Equal(t, StatusPending, b.Status)
}

func TestBooking_Rated(t *testing.T) {
	assert.False(t, (&Booking{}).Rated())
	assert.True(t, (&Booking{Rating: 5}).Rated())
}

func TestSession_Valid(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		var s *Session
		assert.False(t, s.Valid())
	})

	t.Run("TokenWithoutIdentity", func(t *testing.T) {
		assert.False(t, (&Session{Token: "tok"}).Valid())
	})

	t.Run("IdentityWithoutToken", func(t *testing.T) {
		assert.False(t, (&Session{Identity: &Identity{UserID: "42"}}).Valid())
	})

	t.Run("Complete", func(t *testing.T) {
		s := &Session{Token: "tok", Identity: &Identity{UserID: "42", UserName: "Ann", Email: "a@b.c"}}
		assert.True(t, s.Valid())
	})
}

func TestValidFilter(t *testing.T) {
	for _, f := range []string{FilterAll, StatusPending, StatusAccepted, StatusRejected, StatusCompleted} {
		assert.True(t, ValidFilter(f))
	}
	assert.False(t, ValidFilter("cancelled"))
	assert.False(t, ValidFilter(""))
}
