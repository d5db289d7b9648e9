package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseScheduledAt(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		want  time.Time
	}{
		{
			name:  "date and time",
			date:  "2026-09-01",
			clock: "09:30",
			want:  time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "date only",
			date: "2026-09-01",
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "garbage date",
			date:  "soon",
			clock: "09:30",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScheduledAt(tt.date, tt.clock))
		})
	}
}

func TestHasStatus(t *testing.T) {
	b := &Booking{Status: "Ongoing"}
	assert.True(t, b.HasStatus(BookingStatusOngoing))
	assert.True(t, b.HasStatus("ongoing"))
	assert.False(t, b.HasStatus(BookingStatusCompleted))
}

func TestIsCancellable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{status: BookingStatusPending, want: true},
		{status: BookingStatusConfirmed, want: true},
		{status: BookingStatusAssigned, want: true},
		{status: BookingStatusUpcoming, want: true},
		{status: BookingStatusOngoing, want: false},
		{status: BookingStatusCompleted, want: false},
		{status: BookingStatusCancelled, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.want, b.IsCancellable())
		})
	}
}
