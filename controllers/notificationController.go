package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/realtime"
)

// NotificationController exposes the aggregator's derived state to the admin
// dashboard. All mutations go through the aggregator; nothing here touches
// the sets directly.
type NotificationController struct {
	agg *realtime.Aggregator
}

func NewNotificationController(agg *realtime.Aggregator) *NotificationController {
	return &NotificationController{agg: agg}
}

func (nc *NotificationController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"data":         nc.agg.Notifications(),
		"unread_count": nc.agg.UnreadCount(),
	})
}

func (nc *NotificationController) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":      true,
		"unread_count": nc.agg.UnreadCount(),
	})
}

func (nc *NotificationController) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["notification_id"]
	if !nc.agg.MarkNotificationRead(id) {
		http.Error(w, `{"success": false, "message": "Notification not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Notification marked as read",
	})
}

func (nc *NotificationController) RemoveNotification(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["notification_id"]
	if !nc.agg.RemoveNotification(id) {
		http.Error(w, `{"success": false, "message": "Notification not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Notification removed",
	})
}

func (nc *NotificationController) GetPendingOrders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    nc.agg.PendingOrders(),
	})
}

func (nc *NotificationController) AddPendingOrder(w http.ResponseWriter, r *http.Request) {
	table, ok := parseTableNumber(w, r)
	if !ok {
		return
	}
	nc.agg.AddPendingOrder(table)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Table added to pending orders",
	})
}

func (nc *NotificationController) RemovePendingOrder(w http.ResponseWriter, r *http.Request) {
	table, ok := parseTableNumber(w, r)
	if !ok {
		return
	}
	if !nc.agg.RemovePendingOrder(table) {
		http.Error(w, `{"success": false, "message": "Table not in pending orders"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Table removed from pending orders",
	})
}

func (nc *NotificationController) GetStaffCalls(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    nc.agg.StaffCalls(),
	})
}

// CreateStaffCall registers a staff call for a table. This route is public:
// it is the customer table page's "call staff" button.
func (nc *NotificationController) CreateStaffCall(w http.ResponseWriter, r *http.Request) {
	table, ok := parseTableNumber(w, r)
	if !ok {
		return
	}
	n, ok := nc.agg.AddStaffCall(r.Context(), table)
	if !ok {
		http.Error(w, `{"success": false, "message": "Notification service is shut down"}`, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Staff call registered",
		"data":    n,
	})
}

func (nc *NotificationController) RemoveStaffCall(w http.ResponseWriter, r *http.Request) {
	table, ok := parseTableNumber(w, r)
	if !ok {
		return
	}
	if !nc.agg.RemoveStaffCall(table) {
		http.Error(w, `{"success": false, "message": "No staff call for this table"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Staff call dismissed",
	})
}

func parseTableNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	table, err := strconv.Atoi(mux.Vars(r)["table_number"])
	if err != nil {
		http.Error(w, `{"success": false, "message": "Table number must be numeric"}`, http.StatusBadRequest)
		return 0, false
	}
	return table, true
}
