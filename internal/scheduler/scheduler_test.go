package scheduler

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestRegister_ValidatesCronExpression(t *testing.T) {
	s := NewScheduler(context.Background(), nil, nil, nil, nil, zerolog.Nop())

	if err := s.Register("not a cron expr"); err == nil {
		t.Error("expected error for malformed cron expression")
	}
	if err := s.Register("0 */15 * * * *"); err != nil {
		t.Errorf("expected six-field expression to register, got %v", err)
	}
}
