package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	database "github.com/02priyeshraj/Restaurant_POS_Backend/config"
	"github.com/02priyeshraj/Restaurant_POS_Backend/helper"
	middleware "github.com/02priyeshraj/Restaurant_POS_Backend/middlewares"
	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
)

var userCollection *mongo.Collection = database.OpenCollection(database.Client, "user")

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		log.Panic(err)
	}
	return string(bytes)
}

func VerifyPassword(userPassword, providedPassword string) (bool, string) {
	err := bcrypt.CompareHashAndPassword([]byte(providedPassword), []byte(userPassword))
	if err != nil {
		return false, "email or password is incorrect"
	}
	return true, ""
}

func SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.StructPartial(user, "Name", "Email", "Password"); validationErr != nil {
		http.Error(w, `{"error": "Name, email and password are required"}`, http.StatusBadRequest)
		return
	}

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		http.Error(w, `{"error": "Error checking email"}`, http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, `{"error": "Email already exists"}`, http.StatusConflict)
		return
	}

	password := HashPassword(*user.Password)
	user.Password = &password

	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.ID = primitive.NewObjectID()
	user.UserID = user.ID.Hex()

	token, refreshToken, err := helper.GenerateAllTokens(*user.Email, *user.Name, user.UserID)
	if err != nil {
		http.Error(w, `{"error": "Token generation failed"}`, http.StatusInternalServerError)
		return
	}
	user.Token = &token
	user.RefreshToken = &refreshToken

	if _, insertErr := userCollection.InsertOne(ctx, user); insertErr != nil {
		http.Error(w, `{"error": "User creation failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":       "User created successfully",
		"user_id":       user.UserID,
		"token":         token,
		"refresh_token": refreshToken,
	})
}

func Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var user models.User
	var foundUser models.User

	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	err := userCollection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&foundUser)
	if err != nil {
		http.Error(w, `{"error": "email or password is incorrect"}`, http.StatusUnauthorized)
		return
	}

	passwordIsValid, msg := VerifyPassword(*user.Password, *foundUser.Password)
	if !passwordIsValid {
		http.Error(w, `{"error": "`+msg+`"}`, http.StatusUnauthorized)
		return
	}

	token, refreshToken, err := helper.GenerateAllTokens(*foundUser.Email, *foundUser.Name, foundUser.UserID)
	if err != nil {
		http.Error(w, `{"error": "Token generation failed"}`, http.StatusInternalServerError)
		return
	}
	helper.UpdateAllTokens(token, refreshToken, foundUser.UserID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":       "Login successful",
		"user_id":       foundUser.UserID,
		"name":          foundUser.Name,
		"email":         foundUser.Email,
		"token":         token,
		"refresh_token": refreshToken,
	})
}

// RefreshToken rotates the access and refresh token pair. The stored refresh
// token must match the presented one; a rotated-out token is rejected.
func RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RefreshToken == "" {
		http.Error(w, `{"error": "Refresh token required"}`, http.StatusBadRequest)
		return
	}

	claims, msg := helper.ValidateRefreshToken(payload.RefreshToken)
	if msg != "" {
		http.Error(w, `{"error": "Invalid or expired refresh token"}`, http.StatusUnauthorized)
		return
	}

	var foundUser models.User
	err := userCollection.FindOne(ctx, bson.M{"user_id": claims.Uid}).Decode(&foundUser)
	if err != nil || foundUser.RefreshToken == nil || *foundUser.RefreshToken != payload.RefreshToken {
		http.Error(w, `{"error": "Invalid refresh token"}`, http.StatusUnauthorized)
		return
	}

	token, refreshToken, err := helper.GenerateAllTokens(*foundUser.Email, *foundUser.Name, foundUser.UserID)
	if err != nil {
		http.Error(w, `{"error": "Token generation failed"}`, http.StatusInternalServerError)
		return
	}
	helper.UpdateAllTokens(token, refreshToken, foundUser.UserID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":         token,
		"refresh_token": refreshToken,
	})
}

func Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	_, _, uid := middleware.GetUserFromContext(r)
	if uid == "" {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "token", Value: ""},
		{Key: "refresh_token", Value: ""},
		{Key: "updated_at", Value: time.Now()},
	}}}

	if _, err := userCollection.UpdateOne(ctx, bson.M{"user_id": uid}, update); err != nil {
		http.Error(w, `{"error": "Logout failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Logged out successfully",
	})
}
