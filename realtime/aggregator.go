package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/metrics"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
)

const (
	defaultStaffCallTTL = 30 * time.Second
	defaultRetryBase    = 2 * time.Second
	defaultMaxRetries   = 3
)

// NotificationPublisher fans a synthesized notification out to an external
// channel (the owner's companion app). Publish failures are logged only.
type NotificationPublisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

// Aggregator maintains the admin dashboard's derived state: the notification
// list, the set of tables with a pending order and the set of open staff
// calls. All three are owned exclusively by the aggregator and exposed only
// through its methods.
type Aggregator struct {
	open      StreamOpener
	publisher NotificationPublisher
	logger    *slog.Logger

	callTTL    time.Duration
	retryBase  time.Duration
	maxRetries int
	wait       func(ctx context.Context, d time.Duration) bool

	mu            sync.Mutex
	notifications []models.Notification
	pendingOrders map[int]struct{}
	staffCalls    map[int]staffCall
	callGen       uint64
	closed        bool
}

// staffCall pairs the expiry timer with the generation it was scheduled for,
// so a timer that fires after being superseded can be told apart from the
// live one.
type staffCall struct {
	timer *time.Timer
	gen   uint64
}

func NewAggregator(open StreamOpener, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		open:          open,
		logger:        logger,
		callTTL:       defaultStaffCallTTL,
		retryBase:     defaultRetryBase,
		maxRetries:    defaultMaxRetries,
		wait:          sleepCtx,
		pendingOrders: make(map[int]struct{}),
		staffCalls:    make(map[int]staffCall),
	}
}

// SetPublisher attaches an optional fan-out publisher. Must be called before
// Run.
func (a *Aggregator) SetPublisher(p NotificationPublisher) {
	a.publisher = p
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run consumes the live order subscription until ctx is cancelled or the
// retry budget is exhausted. On a stream error the subscription is
// re-established up to maxRetries times with delay retryBase × attempt
// number; after that the listener stops silently.
func (a *Aggregator) Run(ctx context.Context) {
	attempts := 0
	for {
		stream, err := a.open(ctx)
		if err == nil {
			for stream.Next(ctx) {
				var ev orderEvent
				if decErr := stream.Decode(&ev); decErr != nil {
					a.logger.Error("order stream: decode failed", "error", decErr)
					continue
				}
				a.handleOrder(ctx, ev.FullDocument)
				attempts = 0
			}
			err = stream.Err()
			_ = stream.Close(context.Background())
			if ctx.Err() != nil {
				return
			}
		}
		a.logger.Error("order stream: subscription error", "error", err, "attempt", attempts)

		attempts++
		if attempts > a.maxRetries {
			a.logger.Warn("order stream: retry budget exhausted, listener stopped",
				"retries", a.maxRetries)
			return
		}
		metrics.StreamReconnects.Inc()
		if !a.wait(ctx, a.retryBase*time.Duration(attempts)) {
			return
		}
	}
}

// handleOrder turns a newly created order into dashboard state. Orders whose
// table field does not parse as an integer are discarded.
func (a *Aggregator) handleOrder(ctx context.Context, order models.Order) {
	table, err := strconv.Atoi(strings.TrimSpace(order.Table_number))
	if err != nil {
		a.logger.Warn("order stream: discarding event with non-numeric table",
			"order_id", order.Order_id, "table_number", order.Table_number)
		metrics.OrderEventsDiscarded.Inc()
		return
	}

	n := models.Notification{
		Notification_id: uuid.NewString(),
		Table_number:    table,
		Message:         fmt.Sprintf("New order from table %d", table),
		Type:            models.NotificationTypeOrder,
		Created_at:      time.Now(),
	}

	a.mu.Lock()
	a.pendingOrders[table] = struct{}{}
	a.notifications = append([]models.Notification{n}, a.notifications...)
	a.mu.Unlock()

	metrics.NotificationsCreated.WithLabelValues(models.NotificationTypeOrder).Inc()
	a.fanOut(ctx, n)
}

func (a *Aggregator) fanOut(ctx context.Context, n models.Notification) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, n); err != nil {
		a.logger.Error("notification fan-out failed", "error", err,
			"notification_id", n.Notification_id)
	}
}

// AddStaffCall registers a staff call for the table and schedules its expiry.
// A repeated call for the same table restarts the timer, so the call stays
// visible for the full TTL from the latest request. Returns false after Close,
// in which case nothing is registered or published.
func (a *Aggregator) AddStaffCall(ctx context.Context, table int) (models.Notification, bool) {
	n := models.Notification{
		Notification_id: uuid.NewString(),
		Table_number:    table,
		Message:         fmt.Sprintf("Table %d is calling for staff", table),
		Type:            models.NotificationTypeCall,
		Created_at:      time.Now(),
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return models.Notification{}, false
	}
	if old, ok := a.staffCalls[table]; ok {
		old.timer.Stop()
		a.logger.Info("staff call repeated, expiry timer restarted", "table", table)
	}
	a.callGen++
	gen := a.callGen
	a.staffCalls[table] = staffCall{
		timer: time.AfterFunc(a.callTTL, func() { a.expireStaffCall(table, gen) }),
		gen:   gen,
	}
	a.notifications = append([]models.Notification{n}, a.notifications...)
	a.mu.Unlock()

	metrics.NotificationsCreated.WithLabelValues(models.NotificationTypeCall).Inc()
	a.fanOut(ctx, n)
	return n, true
}

// expireStaffCall removes the call only while its scheduling generation is
// still the one on record. A timer that fired after being superseded by a
// repeated call, or after explicit removal, must not touch the successor.
func (a *Aggregator) expireStaffCall(table int, gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if cur, ok := a.staffCalls[table]; ok && cur.gen == gen {
		delete(a.staffCalls, table)
		a.logger.Debug("staff call expired", "table", table)
	}
}

// RemoveStaffCall dismisses a staff call explicitly and cancels its expiry
// timer.
func (a *Aggregator) RemoveStaffCall(table int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	call, ok := a.staffCalls[table]
	if !ok {
		return false
	}
	call.timer.Stop()
	delete(a.staffCalls, table)
	return true
}

func (a *Aggregator) AddPendingOrder(table int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingOrders[table] = struct{}{}
}

func (a *Aggregator) RemovePendingOrder(table int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.pendingOrders[table]; !ok {
		return false
	}
	delete(a.pendingOrders, table)
	return true
}

// MarkNotificationRead marks a notification read. Marking an already-read
// notification is a no-op, so the unread count decreases by at most one.
func (a *Aggregator) MarkNotificationRead(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.notifications {
		if a.notifications[i].Notification_id == id {
			a.notifications[i].Is_read = true
			return true
		}
	}
	return false
}

func (a *Aggregator) RemoveNotification(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.notifications {
		if a.notifications[i].Notification_id == id {
			a.notifications = append(a.notifications[:i], a.notifications[i+1:]...)
			return true
		}
	}
	return false
}

// Notifications returns the notification list, newest first.
func (a *Aggregator) Notifications() []models.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Notification, len(a.notifications))
	copy(out, a.notifications)
	return out
}

// UnreadCount is the live count of notifications with the read flag unset.
func (a *Aggregator) UnreadCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	count := 0
	for _, n := range a.notifications {
		if !n.Is_read {
			count++
		}
	}
	return count
}

func (a *Aggregator) PendingOrders() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return sortedKeys(a.pendingOrders)
}

func (a *Aggregator) StaffCalls() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	tables := make([]int, 0, len(a.staffCalls))
	for t := range a.staffCalls {
		tables = append(tables, t)
	}
	sort.Ints(tables)
	return tables
}

func (a *Aggregator) HasStaffCall(table int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.staffCalls[table]
	return ok
}

// Close stops every live staff-call expiry timer. Run exits through its
// context.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for table, call := range a.staffCalls {
		call.timer.Stop()
		delete(a.staffCalls, table)
	}
	a.closed = true
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
