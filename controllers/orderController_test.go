package controller

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
)

func setFields(t *testing.T, update bson.D) bson.D {
	t.Helper()
	if len(update) != 1 || update[0].Key != "$set" {
		t.Fatalf("expected a single $set stage, got %v", update)
	}
	fields, ok := update[0].Value.(bson.D)
	if !ok {
		t.Fatalf("expected bson.D fields, got %T", update[0].Value)
	}
	return fields
}

func fieldValue(fields bson.D, key string) (interface{}, bool) {
	for _, e := range fields {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func TestTableUpdateForOrderStatus_Served(t *testing.T) {
	update, ok := tableUpdateForOrderStatus(models.OrderStatusServed)
	if !ok {
		t.Fatal("expected a table update for a served order")
	}
	fields := setFields(t, update)
	if v, _ := fieldValue(fields, "status"); v != models.TableStatusServed {
		t.Errorf("expected table status %q, got %v", models.TableStatusServed, v)
	}
	if _, found := fieldValue(fields, "current_order_id"); found {
		t.Error("serving must not detach the order from the table")
	}
}

func TestTableUpdateForOrderStatus_FreesTable(t *testing.T) {
	for _, status := range []string{models.OrderStatusCompleted, models.OrderStatusCancelled} {
		update, ok := tableUpdateForOrderStatus(status)
		if !ok {
			t.Fatalf("expected a table update for order status %q", status)
		}
		fields := setFields(t, update)
		if v, _ := fieldValue(fields, "status"); v != models.TableStatusEmpty {
			t.Errorf("%s: expected table status %q, got %v", status, models.TableStatusEmpty, v)
		}
		if v, found := fieldValue(fields, "current_order_id"); !found || v != nil {
			t.Errorf("%s: expected current_order_id cleared, got %v (found %v)", status, v, found)
		}
		if v, found := fieldValue(fields, "number_of_guests"); !found || v != nil {
			t.Errorf("%s: expected number_of_guests cleared, got %v (found %v)", status, v, found)
		}
	}
}

func TestTableUpdateForOrderStatus_NoTransition(t *testing.T) {
	for _, status := range []string{models.OrderStatusNew, models.OrderStatusPreparing} {
		if _, ok := tableUpdateForOrderStatus(status); ok {
			t.Errorf("expected no table update for order status %q", status)
		}
	}
}
