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

var menuItemCollection *mongo.Collection = database.OpenCollection(database.Client, "menu_item")

func GetMenuItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	filter := bson.M{}
	if menuId := r.URL.Query().Get("menu_id"); menuId != "" {
		filter["menu_id"] = menuId
	}
	if storeId := r.URL.Query().Get("store_id"); storeId != "" {
		filter["store_id"] = storeId
	}

	result, err := menuItemCollection.Find(ctx, filter)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error occurred while listing menu items"}`, http.StatusInternalServerError)
		return
	}

	var allItems []models.MenuItem
	if err = result.All(ctx, &allItems); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding menu item data"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu items retrieved successfully",
		"data":    allItems,
	})
}

func GetMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	itemId := mux.Vars(r)["menu_item_id"]

	var item models.MenuItem
	err := menuItemCollection.FindOne(ctx, bson.M{"menu_item_id": itemId}).Decode(&item)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Menu item not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu item retrieved successfully",
		"data":    item,
	})
}

func CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.Struct(item); validationErr != nil {
		http.Error(w, `{"success": false, "message": "`+validationErr.Error()+`"}`, http.StatusBadRequest)
		return
	}

	// The referenced menu must exist
	count, err := menuCollection.CountDocuments(ctx, bson.M{"menu_id": item.Menu_id})
	if err != nil || count == 0 {
		http.Error(w, `{"success": false, "message": "Invalid menu ID, menu not found"}`, http.StatusNotFound)
		return
	}

	if item.Available == nil {
		available := true
		item.Available = &available
	}

	item.Created_at = time.Now()
	item.Updated_at = time.Now()
	item.ID = primitive.NewObjectID()
	item.Menu_item_id = item.ID.Hex()

	_, err = menuItemCollection.InsertOne(ctx, item)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Menu item creation failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu item created successfully",
		"data":    item,
	})
}

func UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	itemId := mux.Vars(r)["menu_item_id"]

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	updateObj := bson.D{}
	if item.Name != nil {
		updateObj = append(updateObj, bson.E{Key: "name", Value: item.Name})
	}
	if item.Price != nil {
		updateObj = append(updateObj, bson.E{Key: "price", Value: item.Price})
	}
	if item.Item_image != nil {
		updateObj = append(updateObj, bson.E{Key: "item_image", Value: item.Item_image})
	}
	if item.Available != nil {
		updateObj = append(updateObj, bson.E{Key: "available", Value: item.Available})
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now()})

	result, err := menuItemCollection.UpdateOne(ctx, bson.M{"menu_item_id": itemId}, bson.D{{Key: "$set", Value: updateObj}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Menu item update failed"}`, http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, `{"success": false, "message": "Menu item not found"}`, http.StatusNotFound)
		return
	}

	var updatedItem models.MenuItem
	if err := menuItemCollection.FindOne(ctx, bson.M{"menu_item_id": itemId}).Decode(&updatedItem); err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving updated menu item"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu item updated successfully",
		"data":    updatedItem,
	})
}

func DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	itemId := mux.Vars(r)["menu_item_id"]

	result, err := menuItemCollection.DeleteOne(ctx, bson.M{"menu_item_id": itemId})
	if err != nil || result.DeletedCount == 0 {
		http.Error(w, `{"success": false, "message": "Menu item not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu item deleted successfully",
	})
}
