package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"tienda_back_end/internal/database"
	"tienda_back_end/internal/middleware"
	"tienda_back_end/internal/models"
	"tienda_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

// POST /api/auth/register
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	userUUID := gocql.TimeUUID()
	now := time.Now()

	// ✅ Rôle "user" par défaut ; jamais accepté depuis le client
	user := models.User{
		ID:       userUUID.String(),
		Name:     input.Name,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     models.RoleUser,
		Provider: "local",
	}

	if err := createLocalUser(scyllaUserAccounts{session}, user, userUUID, now); err != nil {
		if err == errEmailTaken {
			middleware.RecordFailedAttempt("register_attempts:", input.Email)
			c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	middleware.ClearAttempts("register_attempts:", input.Email)

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	user, err := findUserByEmail(input.Email)
	if err != nil {
		middleware.RecordFailedAttempt("login_attempts:", input.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.Password)
	if err != nil || !ok {
		middleware.RecordFailedAttempt("login_attempts:", input.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	middleware.ClearAttempts("login_attempts:", input.Email)

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Connexion réussie pour %s", user.Email)

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
	})
}

// POST /api/auth/logout — révoque le token courant jusqu'à son expiration
func Logout(c *gin.Context) {
	tokenString := c.GetString("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	ctx := context.Background()
	if err := database.Redis.Set(ctx, "denied_token:"+tokenString, "1", 24*time.Hour).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur déconnexion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

// GET /api/auth/session — l'équivalent du "current session fetch"
func Session(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := findUserByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalide"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ================== CRÉATION DE COMPTE ==================

var errEmailTaken = errors.New("un compte avec cet email existe déjà")

// userAccountStore couvre les écritures de l'inscription locale.
type userAccountStore interface {
	ReserveEmail(email string, userID gocql.UUID) (bool, error)
	InsertUser(user models.User, userID gocql.UUID, now time.Time) error
	ReleaseEmail(email string) error
}

// scyllaUserAccounts implémente userAccountStore sur la session users.
type scyllaUserAccounts struct {
	session *gocql.Session
}

func (s scyllaUserAccounts) ReserveEmail(email string, userID gocql.UUID) (bool, error) {
	// LWT : une seule identité locale par email, même sous deux
	// inscriptions concurrentes
	return s.session.Query(
		`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		email, userID,
	).MapScanCAS(map[string]interface{}{})
}

func (s scyllaUserAccounts) InsertUser(user models.User, userID gocql.UUID, now time.Time) error {
	return s.session.Query(
		`INSERT INTO users (user_id, email, password, name, role, provider, provider_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, user.Email, user.Password, user.Name, user.Role, user.Provider, "", now, now,
	).Exec()
}

func (s scyllaUserAccounts) ReleaseEmail(email string) error {
	return s.session.Query(
		`DELETE FROM users_by_email WHERE email = ?`, email,
	).Exec()
}

// createLocalUser réserve l'email puis insère l'utilisateur. Si l'insert
// échoue après la réservation, celle-ci est libérée — sinon l'adresse
// resterait bloquée pour toujours sans compte derrière.
func createLocalUser(store userAccountStore, user models.User, userID gocql.UUID, now time.Time) error {
	applied, err := store.ReserveEmail(user.Email, userID)
	if err != nil {
		return err
	}
	if !applied {
		return errEmailTaken
	}

	if err := store.InsertUser(user, userID, now); err != nil {
		if relErr := store.ReleaseEmail(user.Email); relErr != nil {
			log.Printf("⚠️ Réservation email non libérée pour %s: %v", user.Email, relErr)
		}
		return err
	}
	return nil
}

// ================== LOOKUPS ==================

func findUserByEmail(email string) (*models.User, error) {
	var userUUID gocql.UUID
	if err := database.GetPreparedGetUserByEmail().Bind(email).Scan(&userUUID); err != nil {
		return nil, err
	}
	return findUserByID(userUUID.String())
}

func findUserByID(userID string) (*models.User, error) {
	userUUID, err := gocql.ParseUUID(userID)
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := database.GetPreparedGetUserByID().Bind(userUUID).Scan(
		&u.Email, &u.Password, &u.Name, &u.Role, &u.Provider, &u.ProviderID,
	); err != nil {
		return nil, err
	}
	u.ID = userID
	return &u, nil
}
