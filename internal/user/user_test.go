package user

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRecordGrowsRedemptionHistory(t *testing.T) {
	a := NewAccount(uuid.New(), "roy",
		RedemptionLog{RuleName: "spend-over-100-save-10pct"},
	)
	if got := a.RedemptionCount(); got != 1 {
		t.Fatalf("RedemptionCount = %d, want 1", got)
	}

	a.Record(RedemptionLog{RuleName: "loyal-customer-5-off", RedeemedAt: time.Now()})
	a.Record(RedemptionLog{RuleName: "loyal-customer-5-off", RedeemedAt: time.Now()})
	if got := a.RedemptionCount(); got != 3 {
		t.Fatalf("RedemptionCount = %d, want 3", got)
	}
}

func TestDirectoryPutAndFind(t *testing.T) {
	d := NewDirectory()
	a := NewAccount(uuid.New(), "roy")
	d.Put(a)

	found, ok := d.Find(a.ID())
	if !ok || found != a {
		t.Fatal("expected to find the registered account")
	}

	if _, ok := d.Find(uuid.New()); ok {
		t.Fatal("unknown id must not resolve")
	}

	d.Put(nil)
	if _, ok := d.Find(uuid.Nil); ok {
		t.Fatal("nil account must not be registered")
	}
}
