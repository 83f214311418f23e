package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeOrderStream replays a fixed batch of order documents, then reports err.
type fakeOrderStream struct {
	orders []models.Order
	idx    int
	err    error
}

func (s *fakeOrderStream) Next(ctx context.Context) bool {
	return s.idx < len(s.orders)
}

func (s *fakeOrderStream) Decode(val interface{}) error {
	ev := val.(*orderEvent)
	ev.FullDocument = s.orders[s.idx]
	s.idx++
	return nil
}

func (s *fakeOrderStream) Err() error                      { return s.err }
func (s *fakeOrderStream) Close(ctx context.Context) error { return nil }

func newTestAggregator() *Aggregator {
	return NewAggregator(nil, testLogger())
}

func TestHandleOrder_AddsPendingAndNotification(t *testing.T) {
	a := newTestAggregator()

	a.handleOrder(context.Background(), models.Order{Order_id: "o1", Table_number: "7"})

	if got := a.PendingOrders(); len(got) != 1 || got[0] != 7 {
		t.Fatalf("expected pending orders [7], got %v", got)
	}

	notifications := a.Notifications()
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	n := notifications[0]
	if n.Table_number != 7 || n.Type != models.NotificationTypeOrder || n.Is_read {
		t.Errorf("unexpected notification: %+v", n)
	}
	if a.UnreadCount() != 1 {
		t.Errorf("expected unread count 1, got %d", a.UnreadCount())
	}
}

func TestHandleOrder_NonNumericTableDiscarded(t *testing.T) {
	a := newTestAggregator()

	a.handleOrder(context.Background(), models.Order{Order_id: "o1", Table_number: "patio"})
	a.handleOrder(context.Background(), models.Order{Order_id: "o2", Table_number: ""})

	if got := a.PendingOrders(); len(got) != 0 {
		t.Errorf("expected no pending orders, got %v", got)
	}
	if got := a.Notifications(); len(got) != 0 {
		t.Errorf("expected no notifications, got %v", got)
	}
}

func TestRun_ConsumesStreamEvents(t *testing.T) {
	stream := &fakeOrderStream{orders: []models.Order{
		{Order_id: "o1", Table_number: "3"},
		{Order_id: "o2", Table_number: "5"},
		{Order_id: "o3", Table_number: "nope"},
	}}

	opened := false
	a := NewAggregator(func(ctx context.Context) (ChangeStream, error) {
		if opened {
			return nil, errors.New("stream gone")
		}
		opened = true
		return stream, nil
	}, testLogger())
	a.retryBase = time.Millisecond

	a.Run(context.Background())

	if got := a.PendingOrders(); len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Errorf("expected pending orders [3 5], got %v", got)
	}
	if a.UnreadCount() != 2 {
		t.Errorf("expected unread count 2, got %d", a.UnreadCount())
	}
}

func TestRun_RetrySchedule(t *testing.T) {
	opens := 0
	a := NewAggregator(func(ctx context.Context) (ChangeStream, error) {
		opens++
		return nil, errors.New("boom")
	}, testLogger())
	a.retryBase = time.Millisecond

	var delays []time.Duration
	a.wait = func(ctx context.Context, d time.Duration) bool {
		delays = append(delays, d)
		return true
	}

	a.Run(context.Background())

	// Initial subscription plus exactly 3 retries, then permanent stop.
	if opens != 4 {
		t.Errorf("expected 4 subscription attempts, got %d", opens)
	}
	want := []time.Duration{1 * time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("expected %d delays, got %v", len(want), delays)
	}
	for i, d := range want {
		if delays[i] != d {
			t.Errorf("delay %d: expected %v, got %v", i, d, delays[i])
		}
	}
}

func TestStaffCallExpiry(t *testing.T) {
	a := newTestAggregator()
	a.callTTL = 40 * time.Millisecond

	a.AddStaffCall(context.Background(), 4)

	if !a.HasStaffCall(4) {
		t.Fatal("expected staff call for table 4 immediately after insertion")
	}
	if a.UnreadCount() != 1 {
		t.Errorf("expected a call notification, unread count %d", a.UnreadCount())
	}

	time.Sleep(120 * time.Millisecond)

	if a.HasStaffCall(4) {
		t.Error("expected staff call to expire")
	}
	// The notification itself stays until dismissed
	if len(a.Notifications()) != 1 {
		t.Errorf("expected notification to survive expiry, got %d", len(a.Notifications()))
	}
}

func TestStaffCallRepeatedRestartsTimer(t *testing.T) {
	a := newTestAggregator()
	a.callTTL = 100 * time.Millisecond

	a.AddStaffCall(context.Background(), 9)
	time.Sleep(60 * time.Millisecond)
	a.AddStaffCall(context.Background(), 9)
	time.Sleep(60 * time.Millisecond)

	// 120ms after the first call but only 60ms after the second: the
	// restarted timer keeps the call alive.
	if !a.HasStaffCall(9) {
		t.Fatal("expected repeated staff call to stay alive past the first TTL")
	}

	time.Sleep(100 * time.Millisecond)
	if a.HasStaffCall(9) {
		t.Error("expected staff call to expire after the restarted TTL")
	}
}

func TestStaffCallSupersededTimerLeavesRestartAlone(t *testing.T) {
	a := newTestAggregator()
	a.callTTL = time.Hour

	a.AddStaffCall(context.Background(), 5)
	a.mu.Lock()
	firstGen := a.staffCalls[5].gen
	a.mu.Unlock()

	a.AddStaffCall(context.Background(), 5)

	// A first-round timer firing after the restart must not remove the call.
	a.expireStaffCall(5, firstGen)
	if !a.HasStaffCall(5) {
		t.Fatal("restarted staff call was removed by a superseded timer")
	}

	a.mu.Lock()
	secondGen := a.staffCalls[5].gen
	a.mu.Unlock()

	a.expireStaffCall(5, secondGen)
	if a.HasStaffCall(5) {
		t.Error("expected the current timer's expiry to remove the call")
	}
}

func TestAddStaffCallAfterClose(t *testing.T) {
	a := newTestAggregator()
	a.Close()

	n, ok := a.AddStaffCall(context.Background(), 3)
	if ok {
		t.Fatal("expected staff call registration to fail after Close")
	}
	if n.Notification_id != "" {
		t.Errorf("expected a zero notification, got %+v", n)
	}
	if len(a.Notifications()) != 0 {
		t.Errorf("expected no notifications after Close, got %d", len(a.Notifications()))
	}
	if a.HasStaffCall(3) {
		t.Error("expected no staff call registered after Close")
	}
}

func TestRemoveStaffCallCancelsTimer(t *testing.T) {
	a := newTestAggregator()
	a.callTTL = time.Hour

	a.AddStaffCall(context.Background(), 2)
	if !a.RemoveStaffCall(2) {
		t.Fatal("expected removal to succeed")
	}
	if a.HasStaffCall(2) {
		t.Error("expected staff call to be gone after explicit removal")
	}
	if a.RemoveStaffCall(2) {
		t.Error("expected second removal to report not found")
	}
}

func TestMarkNotificationRead_Idempotent(t *testing.T) {
	a := newTestAggregator()
	a.handleOrder(context.Background(), models.Order{Order_id: "o1", Table_number: "1"})
	a.handleOrder(context.Background(), models.Order{Order_id: "o2", Table_number: "2"})

	if a.UnreadCount() != 2 {
		t.Fatalf("expected unread count 2, got %d", a.UnreadCount())
	}

	id := a.Notifications()[0].Notification_id
	if !a.MarkNotificationRead(id) {
		t.Fatal("expected mark read to succeed")
	}
	if a.UnreadCount() != 1 {
		t.Errorf("expected unread count 1 after marking, got %d", a.UnreadCount())
	}

	// Marking twice must not decrease the count further
	if !a.MarkNotificationRead(id) {
		t.Fatal("expected second mark read to still find the notification")
	}
	if a.UnreadCount() != 1 {
		t.Errorf("expected unread count to stay 1, got %d", a.UnreadCount())
	}

	if a.MarkNotificationRead("missing") {
		t.Error("expected mark read on unknown id to report not found")
	}
}

func TestRemoveNotification(t *testing.T) {
	a := newTestAggregator()
	a.handleOrder(context.Background(), models.Order{Order_id: "o1", Table_number: "1"})

	id := a.Notifications()[0].Notification_id
	if !a.RemoveNotification(id) {
		t.Fatal("expected removal to succeed")
	}
	if len(a.Notifications()) != 0 {
		t.Error("expected empty notification list")
	}
	if a.RemoveNotification(id) {
		t.Error("expected second removal to report not found")
	}
}

func TestPendingOrderSet(t *testing.T) {
	a := newTestAggregator()

	a.AddPendingOrder(5)
	a.AddPendingOrder(3)
	a.AddPendingOrder(5)

	if got := a.PendingOrders(); len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Errorf("expected pending orders [3 5], got %v", got)
	}
	if !a.RemovePendingOrder(5) {
		t.Error("expected removal of table 5 to succeed")
	}
	if a.RemovePendingOrder(5) {
		t.Error("expected second removal to report not found")
	}
}

func TestClose_StopsTimers(t *testing.T) {
	a := newTestAggregator()
	a.callTTL = time.Hour

	a.AddStaffCall(context.Background(), 1)
	a.AddStaffCall(context.Background(), 2)
	a.Close()

	if got := a.StaffCalls(); len(got) != 0 {
		t.Errorf("expected no staff calls after Close, got %v", got)
	}
}
