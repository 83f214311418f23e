package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	database "github.com/AlwaysKim-03/Orderland_Ordering_Backend/config"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/helper"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/models"
	"github.com/AlwaysKim-03/Orderland_Ordering_Backend/realtime"
)

var userCollection *mongo.Collection = database.OpenCollection(database.Client, "user")

var sessionStore *helper.SessionStore

// InitSessionStore wires the Redis-backed session store into the user
// handlers. Must be called before the router starts serving.
func InitSessionStore(s *helper.SessionStore) {
	sessionStore = s
}

func GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	recordPerPage, err := strconv.Atoi(r.URL.Query().Get("recordPerPage"))
	if err != nil || recordPerPage < 1 {
		recordPerPage = 10
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	startIndex := (page - 1) * recordPerPage

	matchStage := bson.D{{Key: "$match", Value: bson.D{}}}
	skipStage := bson.D{{Key: "$skip", Value: startIndex}}
	limitStage := bson.D{{Key: "$limit", Value: int64(recordPerPage)}}
	projectStage := bson.D{
		{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "email", Value: 1},
			{Key: "first_name", Value: 1},
			{Key: "last_name", Value: 1},
			{Key: "store_name", Value: 1},
			{Key: "approval_status", Value: 1},
			{Key: "is_active", Value: 1},
			{Key: "user_id", Value: 1},
		}},
	}

	result, err := userCollection.Aggregate(ctx, mongo.Pipeline{matchStage, skipStage, limitStage, projectStage})
	if err != nil {
		http.Error(w, "Error occurred while listing users", http.StatusInternalServerError)
		return
	}

	var allUsers []bson.M
	if err = result.All(ctx, &allUsers); err != nil {
		http.Error(w, "Error decoding user data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(allUsers)
}

func GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	userId := params["user_id"]

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"user_id": userId}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	responseUser := struct {
		FirstName      string    `json:"first_name"`
		LastName       string    `json:"last_name"`
		Email          string    `json:"email"`
		Avatar         *string   `json:"avatar"`
		Phone          string    `json:"phone"`
		StoreId        string    `json:"store_id"`
		StoreName      *string   `json:"store_name"`
		ApprovalStatus string    `json:"approval_status"`
		IsActive       *bool     `json:"is_active"`
		CreatedAt      time.Time `json:"created_at"`
		UpdatedAt      time.Time `json:"updated_at"`
		UserID         string    `json:"user_id"`
	}{
		FirstName:      *user.First_name,
		LastName:       *user.Last_name,
		Email:          *user.Email,
		Avatar:         user.Avatar,
		Phone:          *user.Phone,
		StoreId:        user.Store_id,
		StoreName:      user.Store_name,
		ApprovalStatus: user.Approval_status,
		IsActive:       user.Is_active,
		CreatedAt:      user.Created_at,
		UpdatedAt:      user.Updated_at,
		UserID:         user.User_id,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responseUser)
}

func SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if validationErr := validate.Struct(user); validationErr != nil {
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
		return
	}

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		http.Error(w, "Error checking email", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "Email already exists", http.StatusConflict)
		return
	}

	password := HashPassword(*user.Password)
	user.Password = &password

	user.Created_at = time.Now()
	user.Updated_at = time.Now()
	user.ID = primitive.NewObjectID()
	user.User_id = user.ID.Hex()
	user.Store_id = primitive.NewObjectID().Hex()

	// New accounts wait for approval; the owner dashboard stays locked until
	// an operator approves the store. The client never sets these fields.
	active := true
	user.Is_active = &active
	user.Approval_status = models.ApprovalPending
	user.Token = nil
	user.Refresh_Token = nil

	// Mark registration as in progress so a concurrently issued token does
	// not surface an identity mid-signup.
	if sessionStore != nil {
		if err := sessionStore.SetRegistrationInProgress(ctx, user.User_id); err != nil {
			log.Printf("failed to set registration flag for %s: %v", user.User_id, err)
		}
		defer func() {
			if err := sessionStore.ClearRegistrationInProgress(ctx, user.User_id); err != nil {
				log.Printf("failed to clear registration flag for %s: %v", user.User_id, err)
			}
		}()
	}

	_, insertErr := userCollection.InsertOne(ctx, user)
	if insertErr != nil {
		http.Error(w, "User creation failed", http.StatusInternalServerError)
		return
	}

	user.Password = nil

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Registration submitted, account is awaiting approval",
		"data":    user,
	})
}

func Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var user models.User
	var foundUser models.User

	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := userCollection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&foundUser)
	if err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}

	passwordIsValid, msg := VerifyPassword(*user.Password, *foundUser.Password)
	if !passwordIsValid {
		http.Error(w, msg, http.StatusUnauthorized)
		return
	}

	// Credentials alone are not enough: the account document must also be
	// active and approved.
	if result := realtime.EvaluateAccount(foundUser, nil); result.Status == realtime.AccountInvalid {
		http.Error(w, result.Reason, http.StatusForbidden)
		return
	}

	token, refreshToken, err := helper.GenerateAllTokens(*foundUser.Email, *foundUser.First_name, *foundUser.Last_name, foundUser.Store_id, foundUser.User_id)
	if err != nil {
		http.Error(w, "Token generation failed", http.StatusInternalServerError)
		return
	}
	updateAllTokens(token, refreshToken, foundUser.User_id)

	if sessionStore != nil {
		if err := sessionStore.SaveSession(ctx, foundUser.User_id, token); err != nil {
			log.Printf("failed to save session for %s: %v", foundUser.User_id, err)
		}
	}

	// Create a response struct excluding the password
	responseUser := struct {
		Email        string  `json:"email"`
		FirstName    string  `json:"first_name"`
		LastName     string  `json:"last_name"`
		StoreId      string  `json:"store_id"`
		StoreName    *string `json:"store_name"`
		UserID       string  `json:"user_id"`
		Token        string  `json:"token"`
		RefreshToken string  `json:"refresh_token"`
	}{
		Email:        *foundUser.Email,
		FirstName:    *foundUser.First_name,
		LastName:     *foundUser.Last_name,
		StoreId:      foundUser.Store_id,
		StoreName:    foundUser.Store_name,
		UserID:       foundUser.User_id,
		Token:        token,
		RefreshToken: refreshToken,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responseUser)
}

func Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	userId := params["user_id"]

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "token", Value: nil},
			{Key: "refresh_token", Value: nil},
			{Key: "updated_at", Value: time.Now()},
		}},
	}

	result, err := userCollection.UpdateOne(ctx, bson.M{"user_id": userId}, update)
	if err != nil {
		http.Error(w, "Logout failed", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	if sessionStore != nil {
		if err := sessionStore.RevokeSessions(ctx, userId); err != nil {
			log.Printf("failed to revoke sessions for %s: %v", userId, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetDeactivationNotice returns the one-time explanation left behind when a
// session was forcibly invalidated, then deletes it.
func GetDeactivationNotice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	params := mux.Vars(r)
	userId := params["user_id"]

	if sessionStore == nil {
		http.Error(w, "Session store not available", http.StatusServiceUnavailable)
		return
	}

	notice, err := sessionStore.PopDeactivationNotice(ctx, userId)
	if err != nil {
		http.Error(w, "Error retrieving notice", http.StatusInternalServerError)
		return
	}
	if notice == nil {
		http.Error(w, "No notice pending", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    notice,
	})
}

// SetApprovalStatus is the admin operation behind the approve and reject
// routes. The account change stream picks the update up and expires any live
// session if the account is no longer eligible.
func SetApprovalStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		params := mux.Vars(r)
		userId := params["user_id"]

		update := bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "approval_status", Value: status},
				{Key: "updated_at", Value: time.Now()},
			}},
		}

		result, err := userCollection.UpdateOne(ctx, bson.M{"user_id": userId}, update)
		if err != nil {
			http.Error(w, "Failed to update approval status", http.StatusInternalServerError)
			return
		}
		if result.MatchedCount == 0 {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Approval status updated",
			"data":    map[string]interface{}{"user_id": userId, "approval_status": status},
		})
	}
}

// SetActiveFlag is the admin operation behind the activate and deactivate
// routes.
func SetActiveFlag(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		params := mux.Vars(r)
		userId := params["user_id"]

		update := bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "is_active", Value: active},
				{Key: "updated_at", Value: time.Now()},
			}},
		}

		result, err := userCollection.UpdateOne(ctx, bson.M{"user_id": userId}, update)
		if err != nil {
			http.Error(w, "Failed to update active flag", http.StatusInternalServerError)
			return
		}
		if result.MatchedCount == 0 {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Active flag updated",
			"data":    map[string]interface{}{"user_id": userId, "is_active": active},
		})
	}
}

// updateAllTokens updates JWT tokens in MongoDB
func updateAllTokens(signedToken, signedRefreshToken, userId string) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	updateObj := bson.D{
		{Key: "token", Value: signedToken},
		{Key: "refresh_token", Value: signedRefreshToken},
		{Key: "updated_at", Value: time.Now()},
	}

	upsert := true
	filter := bson.M{"user_id": userId}
	opt := options.UpdateOptions{Upsert: &upsert}

	_, err := userCollection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: updateObj}}, &opt)
	if err != nil {
		log.Printf("failed to update tokens for %s: %v", userId, err)
	}
}

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		log.Panic(err)
	}
	return string(bytes)
}

func VerifyPassword(userPassword string, providedPassword string) (bool, string) {
	if err := bcrypt.CompareHashAndPassword([]byte(providedPassword), []byte(userPassword)); err != nil {
		return false, "Incorrect password"
	}
	return true, ""
}
