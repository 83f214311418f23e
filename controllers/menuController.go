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

var menuCollection *mongo.Collection = database.OpenCollection(database.Client, "menu")

func GetMenus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	filter := bson.M{}
	if storeId := r.URL.Query().Get("store_id"); storeId != "" {
		filter["store_id"] = storeId
	}

	result, err := menuCollection.Find(ctx, filter)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Error occurred while listing menus"}`, http.StatusInternalServerError)
		return
	}

	var allMenus []models.Menu
	if err = result.All(ctx, &allMenus); err != nil {
		http.Error(w, `{"success": false, "message": "Error decoding menu data"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menus retrieved successfully",
		"data":    allMenus,
	})
}

func GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	menuId := mux.Vars(r)["menu_id"]

	var menu models.Menu
	err := menuCollection.FindOne(ctx, bson.M{"menu_id": menuId}).Decode(&menu)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Menu not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu retrieved successfully",
		"data":    menu,
	})
}

func CreateMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var menu models.Menu
	if err := json.NewDecoder(r.Body).Decode(&menu); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.Struct(menu); validationErr != nil {
		http.Error(w, `{"success": false, "message": "`+validationErr.Error()+`"}`, http.StatusBadRequest)
		return
	}

	menu.Created_at = time.Now()
	menu.Updated_at = time.Now()
	menu.ID = primitive.NewObjectID()
	menu.Menu_id = menu.ID.Hex()

	_, err := menuCollection.InsertOne(ctx, menu)
	if err != nil {
		http.Error(w, `{"success": false, "message": "Menu creation failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu created successfully",
		"data":    menu,
	})
}

func UpdateMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	menuId := mux.Vars(r)["menu_id"]

	var menu models.Menu
	if err := json.NewDecoder(r.Body).Decode(&menu); err != nil {
		http.Error(w, `{"success": false, "message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	updateObj := bson.D{}
	if menu.Name != "" {
		updateObj = append(updateObj, bson.E{Key: "name", Value: menu.Name})
	}
	if menu.Category != "" {
		updateObj = append(updateObj, bson.E{Key: "category", Value: menu.Category})
	}
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: time.Now()})

	result, err := menuCollection.UpdateOne(ctx, bson.M{"menu_id": menuId}, bson.D{{Key: "$set", Value: updateObj}})
	if err != nil {
		http.Error(w, `{"success": false, "message": "Menu update failed"}`, http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, `{"success": false, "message": "Menu not found"}`, http.StatusNotFound)
		return
	}

	var updatedMenu models.Menu
	if err := menuCollection.FindOne(ctx, bson.M{"menu_id": menuId}).Decode(&updatedMenu); err != nil {
		http.Error(w, `{"success": false, "message": "Error retrieving updated menu"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu updated successfully",
		"data":    updatedMenu,
	})
}

func DeleteMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	menuId := mux.Vars(r)["menu_id"]

	result, err := menuCollection.DeleteOne(ctx, bson.M{"menu_id": menuId})
	if err != nil || result.DeletedCount == 0 {
		http.Error(w, `{"success": false, "message": "Menu not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Menu deleted successfully",
	})
}
