package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	database "github.com/AlwaysKim-03/Orderland_Ordering_Backend/config"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
)

var tableCollection *mongo.Collection = database.OpenCollection(database.Client, "table")

func GetTables(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	filter := bson.M{}
	if storeId := r.URL.Query().Get("store_id"); storeId != "" {
		filter["store_id"] = storeId
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	result, err := tableCollection.Find(ctx, filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Error occurred while listing tables",
		})
		return
	}

	var allTables []models.Table
	if err = result.All(ctx, &allTables); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Error decoding table data",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Tables retrieved successfully",
		"data":    allTables,
	})
}

func GetTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	tableId := params["table_id"]
	var table models.Table

	err := tableCollection.FindOne(ctx, bson.M{"table_id": tableId}).Decode(&table)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Table not found",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Table retrieved successfully",
		"data":    table,
	})
}

func CreateTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	if validationErr := validate.Struct(table); validationErr != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": validationErr.Error(),
		})
		return
	}

	// Check if the table number already exists for this store
	count, err := tableCollection.CountDocuments(ctx, bson.M{"table_number": table.Table_number, "store_id": table.Store_id})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Error checking table number",
		})
		return
	}
	if count > 0 {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Table number already exists",
		})
		return
	}

	// Set metadata fields
	table.Created_at = time.Now()
	table.Updated_at = time.Now()
	table.ID = primitive.NewObjectID()
	table.Table_id = table.ID.Hex()
	table.Status = models.TableStatusEmpty
	table.Current_order_id = nil

	_, insertErr := tableCollection.InsertOne(ctx, table)
	if insertErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Table was not created",
		})
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Table created successfully",
		"data":    table,
	})
}

func UpdateTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	tableId := params["table_id"]
	var table models.Table

	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Invalid request payload",
		})
		return
	}

	// Fetch the existing table
	var existingTable models.Table
	err := tableCollection.FindOne(ctx, bson.M{"table_id": tableId}).Decode(&existingTable)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Table not found",
		})
		return
	}

	// Prepare the update object
	updateObj := bson.D{}
	if table.Number_of_guests != nil {
		updateObj = append(updateObj, bson.E{Key: "number_of_guests", Value: table.Number_of_guests})
	}
	if table.Table_number != nil {
		updateObj = append(updateObj, bson.E{Key: "table_number", Value: table.Table_number})
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now()})

	filter := bson.M{"table_id": tableId}
	update := bson.D{{Key: "$set", Value: updateObj}}

	_, err = tableCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Failed to update table",
		})
		return
	}

	// Fetch updated table data
	var updatedTable models.Table
	err = tableCollection.FindOne(ctx, bson.M{"table_id": tableId}).Decode(&updatedTable)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Error fetching updated table",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Table updated successfully",
		"data":    updatedTable,
	})
}

// SetTableStatus is the handler factory behind the occupy, serve and clear
// transitions.
func SetTableStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		params := mux.Vars(r)
		tableId := params["table_id"]

		updateObj := bson.D{
			{Key: "status", Value: status},
			{Key: "updated_at", Value: time.Now()},
		}

		// Clearing a table also detaches its order and guest count
		if status == models.TableStatusEmpty {
			updateObj = append(updateObj,
				bson.E{Key: "current_order_id", Value: nil},
				bson.E{Key: "number_of_guests", Value: nil},
			)
		}

		result, err := tableCollection.UpdateOne(ctx, bson.M{"table_id": tableId}, bson.D{{Key: "$set", Value: updateObj}})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Failed to update table status",
			})
			return
		}
		if result.MatchedCount == 0 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Table not found",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Table status updated successfully",
			"data":    map[string]interface{}{"table_id": tableId, "status": status},
		})
	}
}

func DeleteTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	tableId := params["table_id"]

	// Fetch the existing table
	var existingTable models.Table
	err := tableCollection.FindOne(ctx, bson.M{"table_id": tableId}).Decode(&existingTable)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Table not found",
		})
		return
	}

	result, err := tableCollection.DeleteOne(ctx, bson.M{"table_id": tableId})
	if err != nil || result.DeletedCount == 0 {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Table deletion failed",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Table deleted successfully",
		"data":    existingTable,
	})
}
