package common

import (
	"errors"
	"testing"
)

func TestCheckQuotaResetsOnNewEpoch(t *testing.T) {
	q := Quota{MaxRequestsPerEpoch: 2, EpochSeconds: 60}
	now, err := CheckQuota(q, 1, QuotaNow{}, 1)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	now, err = CheckQuota(q, 1, now, 1)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if _, err = CheckQuota(q, 1, now, 1); !errors.Is(err, ErrQuotaRequestsExceeded) {
		t.Fatalf("expected quota exceeded, got %v", err)
	}
	next, err := CheckQuota(q, 2, now, 1)
	if err != nil {
		t.Fatalf("request in new epoch: %v", err)
	}
	if next.ReqCount != 1 || next.EpochID != 2 {
		t.Fatalf("unexpected counters after reset: %+v", next)
	}
}

func TestCheckQuotaUnlimitedWhenZero(t *testing.T) {
	now := QuotaNow{}
	var err error
	for i := 0; i < 100; i++ {
		now, err = CheckQuota(Quota{}, 1, now, 1)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
}
