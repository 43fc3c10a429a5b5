package handlers

import (
	"testing"

	"github.com/smartbuddy/smartbuddy/models"
)

func TestPendingLimitReached(t *testing.T) {
	for count, want := range map[int64]bool{0: false, 4: false, 5: true, 6: true} {
		if got := pendingLimitReached(count); got != want {
			t.Errorf("pendingLimitReached(%d) = %v, want %v", count, got, want)
		}
	}
}

func TestRequestTransitionFromPending(t *testing.T) {
	status, ok := requestTransition(models.RequestPending, "accept")
	if !ok || status != models.RequestAccepted {
		t.Errorf("accept on pending = (%q, %v), want (accepted, true)", status, ok)
	}

	status, ok = requestTransition(models.RequestPending, "reject")
	if !ok || status != models.RequestRejected {
		t.Errorf("reject on pending = (%q, %v), want (rejected, true)", status, ok)
	}
}

func TestRequestTransitionIsTerminal(t *testing.T) {
	for _, current := range []string{models.RequestAccepted, models.RequestRejected} {
		for _, action := range []string{"accept", "reject"} {
			status, ok := requestTransition(current, action)
			if ok {
				t.Errorf("%s on %s request must not transition", action, current)
			}
			if status != current {
				t.Errorf("%s on %s request changed status to %q", action, current, status)
			}
		}
	}
}
