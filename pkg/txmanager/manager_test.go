package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"deadlock detected", &pq.Error{Code: "40P01"}, true},
		{"lock not available", &pq.Error{Code: "55P03"}, true},
		{"wrapped serialization failure", fmt.Errorf("commit: %w", &pq.Error{Code: "40001"}), true},
		{"unique violation is not retryable", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableError(tt.err))
		})
	}
}

func TestRetryReason(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{"serialization failure", &pq.Error{Code: "40001"}, "serialization_failure"},
		{"deadlock detected", &pq.Error{Code: "40P01"}, "deadlock"},
		{"lock not available", &pq.Error{Code: "55P03"}, "lock_timeout"},
		{"wrapped deadlock", fmt.Errorf("commit: %w", &pq.Error{Code: "40P01"}), "deadlock"},
		{"non-pq error", errors.New("boom"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reason, retryReason(tt.err))
		})
	}
}
