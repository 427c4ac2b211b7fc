package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRejection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: ErrUserRejected, want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("authorize: %w", ErrUserRejected), want: true},
		{name: "cancelled message", err: errors.New("User cancelled the request"), want: true},
		{name: "rejected message", err: errors.New("User rejected the request."), want: true},
		{name: "os permission failure", err: errors.New("authorization failed: bluetooth permission denied by OS"), want: false},
		{name: "context cancellation", err: errors.New("context canceled"), want: false},
		{name: "transport failure", err: errors.New("relay socket closed"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRejection(tt.err))
		})
	}
}
