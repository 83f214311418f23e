package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	database "github.com/AlwaysKim-03/Orderland_Ordering_Backend/config"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")

var validate = validator.New()

// Get all orders
func GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	// Parse pagination parameters
	recordPerPage, err := strconv.Atoi(r.URL.Query().Get("recordPerPage"))
	if err != nil || recordPerPage < 1 {
		recordPerPage = 10
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	startIndex := (page - 1) * recordPerPage

	filter := bson.D{}
	if storeId := r.URL.Query().Get("store_id"); storeId != "" {
		filter = append(filter, bson.E{Key: "store_id", Value: storeId})
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter = append(filter, bson.E{Key: "status", Value: status})
	}

	// MongoDB Aggregation Pipeline, newest orders first
	matchStage := bson.D{{Key: "$match", Value: filter}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}}
	skipStage := bson.D{{Key: "$skip", Value: startIndex}}
	limitStage := bson.D{{Key: "$limit", Value: int64(recordPerPage)}}

	cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, sortStage, skipStage, limitStage})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving orders"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var allOrders []models.Order
	if err = cursor.All(ctx, &allOrders); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding order data"}`, http.StatusInternalServerError)
		return
	}

	// Get total order count
	totalOrders, err := orderCollection.CountDocuments(ctx, filter)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving total order count"}`, http.StatusInternalServerError)
		return
	}

	// Construct response
	response := map[string]interface{}{
		"success": true,
		"message": "Orders retrieved successfully",
		"data":    allOrders,
		"pagination": map[string]interface{}{
			"current_page":     page,
			"records_per_page": recordPerPage,
			"total_orders":     totalOrders,
			"total_pages":      (totalOrders + int64(recordPerPage) - 1) / int64(recordPerPage),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func GetOrderById(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orderId := mux.Vars(r)["order_id"]
	if orderId == "" {
		http.Error(w, `{"success": false, "message": "Invalid order ID"}`, http.StatusBadRequest)
		return
	}

	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"success": false, "message": "Order not found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Order retrieved successfully",
		"data":    order,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func GetOrdersByTableNumber(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	tableNumber := mux.Vars(r)["table_number"]
	if tableNumber == "" {
		http.Error(w, `{"success": false, "message": "Invalid table number"}`, http.StatusBadRequest)
		return
	}

	recordPerPage, err := strconv.Atoi(r.URL.Query().Get("recordPerPage"))
	if err != nil || recordPerPage < 1 {
		recordPerPage = 10
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	startIndex := (page - 1) * recordPerPage

	matchStage := bson.D{{Key: "$match", Value: bson.D{{Key: "table_number", Value: tableNumber}}}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}}
	skipStage := bson.D{{Key: "$skip", Value: startIndex}}
	limitStage := bson.D{{Key: "$limit", Value: int64(recordPerPage)}}

	cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, sortStage, skipStage, limitStage})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving orders"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding orders data"}`, http.StatusInternalServerError)
		return
	}

	if len(orders) == 0 {
		http.Error(w, `{"success": false, "message": "No orders found for this table"}`, http.StatusNotFound)
		return
	}

	totalOrders, err := orderCollection.CountDocuments(ctx, bson.M{"table_number": tableNumber})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving total order count"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Orders retrieved successfully",
		"data":    orders,
		"pagination": map[string]interface{}{
			"current_page":     page,
			"records_per_page": recordPerPage,
			"total_orders":     totalOrders,
			"total_pages":      (totalOrders + int64(recordPerPage) - 1) / int64(recordPerPage),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// New orders always enter the pipeline as "new"; that is what the
	// dashboard's change-stream listener watches for.
	order.Status = models.OrderStatusNew
	for i := range order.Items {
		if order.Items[i].Status == "" {
			order.Items[i].Status = models.ItemStatusPending
		}
	}

	if validationErr := validate.Struct(order); validationErr != nil {
		http.Error(w, `{"success": false, "message": "`+validationErr.Error()+`"}`, http.StatusBadRequest)
		return
	}

	tableNumber, err := strconv.Atoi(order.Table_number)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Table number must be numeric"}`, http.StatusBadRequest)
		return
	}

	// The table must exist for this store before an order can be placed at it
	var table models.Table
	err = tableCollection.FindOne(ctx, bson.M{"table_number": tableNumber, "store_id": order.Store_id}).Decode(&table)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Invalid table number, table not found"}`, http.StatusNotFound)
		return
	}

	// The server owns the total
	total := 0.0
	for _, item := range order.Items {
		total += item.Price * float64(item.Quantity)
	}
	order.Total_amount = total

	order.Created_at = time.Now()
	order.Updated_at = time.Now()
	order.ID = primitive.NewObjectID()
	order.Order_id = order.ID.Hex()

	_, err = orderCollection.InsertOne(ctx, order)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Order creation failed"}`, http.StatusInternalServerError)
		return
	}

	// Order creation occupies the table
	occupyUpdate := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: models.TableStatusOccupied},
		{Key: "number_of_guests", Value: order.Guest_count},
		{Key: "current_order_id", Value: order.Order_id},
		{Key: "updated_at", Value: time.Now()},
	}}}
	if _, err := tableCollection.UpdateOne(ctx, bson.M{"table_id": table.Table_id}, occupyUpdate); err != nil {
		http.Error(w, `{"success": false, "message": "Order created but table update failed"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Order created successfully",
		"data":    order,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

func UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orderId := mux.Vars(r)["order_id"]

	// Parse request body
	var requestBody struct {
		Status string `json:"status" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Validate Status
	validStatuses := map[string]bool{
		models.OrderStatusNew: true, models.OrderStatusPreparing: true,
		models.OrderStatusServed: true, models.OrderStatusCompleted: true,
		models.OrderStatusCancelled: true,
	}

	if !validStatuses[requestBody.Status] {
		http.Error(w, `{"success": false, "message": "Invalid order status"}`, http.StatusBadRequest)
		return
	}

	// Check if order exists
	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"success": false, "message": "Order not found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	update := bson.M{
		"$set": bson.M{
			"status":     requestBody.Status,
			"updated_at": time.Now(),
		},
	}

	result, err := orderCollection.UpdateOne(ctx, bson.M{"order_id": orderId}, update)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Failed to update order status"}`, http.StatusInternalServerError)
		return
	}

	if result.MatchedCount == 0 {
		http.Error(w, `{"success": false, "message": "Order not found"}`, http.StatusNotFound)
		return
	}

	// Order status drives table status: serving marks the table served,
	// finishing the order frees the table.
	if tableNumber, convErr := strconv.Atoi(order.Table_number); convErr == nil {
		if tableUpdate, ok := tableUpdateForOrderStatus(requestBody.Status); ok {
			filter := bson.M{"table_number": tableNumber, "store_id": order.Store_id}
			if _, err := tableCollection.UpdateOne(ctx, filter, tableUpdate); err != nil {
				log.Printf("failed to update table %d for order %s: %v", tableNumber, orderId, err)
			}
		}
	}

	// Fetch updated order
	err = orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving updated order"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// tableUpdateForOrderStatus maps an order status change onto the update for
// the table it occupies. Returns false for statuses that leave the table
// untouched.
func tableUpdateForOrderStatus(status string) (bson.D, bool) {
	switch status {
	case models.OrderStatusServed:
		return bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: models.TableStatusServed},
			{Key: "updated_at", Value: time.Now()},
		}}}, true
	case models.OrderStatusCompleted, models.OrderStatusCancelled:
		return bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: models.TableStatusEmpty},
			{Key: "current_order_id", Value: nil},
			{Key: "number_of_guests", Value: nil},
			{Key: "updated_at", Value: time.Now()},
		}}}, true
	}
	return nil, false
}

// UpdateOrderItemStatus moves a single ordered item through
// pending -> preparing -> ready -> served.
func UpdateOrderItemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	orderId := params["order_id"]

	itemIndex, err := strconv.Atoi(params["item_index"])
	if err != nil || itemIndex < 0 {
		http.Error(w, `{"success": false, "message": "Invalid item index"}`, http.StatusBadRequest)
		return
	}

	var requestBody struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	validStatuses := map[string]bool{
		models.ItemStatusPending: true, models.ItemStatusPreparing: true,
		models.ItemStatusReady: true, models.ItemStatusServed: true,
	}
	if !validStatuses[requestBody.Status] {
		http.Error(w, `{"success": false, "message": "Invalid item status"}`, http.StatusBadRequest)
		return
	}

	var order models.Order
	err = orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"success": false, "message": "Order not found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	if itemIndex >= len(order.Items) {
		http.Error(w, `{"success": false, "message": "Item index out of range"}`, http.StatusBadRequest)
		return
	}

	update := bson.M{
		"$set": bson.M{
			"items." + strconv.Itoa(itemIndex) + ".status": requestBody.Status,
			"updated_at": time.Now(),
		},
	}

	if _, err := orderCollection.UpdateOne(ctx, bson.M{"order_id": orderId}, update); err != nil {
		http.Error(w, `{"success": false, "message": "Failed to update item status"}`, http.StatusInternalServerError)
		return
	}

	err = orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving updated order"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Item status updated successfully",
		"data":    order,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	orderId := mux.Vars(r)["order_id"]

	// Find the order before deleting
	var order models.Order
	err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"success": false, "message": "Order not found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	result, err := orderCollection.DeleteOne(ctx, bson.M{"order_id": orderId})
	if err != nil || result.DeletedCount == 0 {
		http.Error(w, `{"success": false, "message": "Error deleting order"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Order deleted successfully",
		"data":    order,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
