package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"tienda_back_end/internal/config"
	"tienda_back_end/internal/database"
	"tienda_back_end/internal/models"
	"tienda_back_end/internal/utils"
)

// ================== AUTH SOCIALE (WEB) ==================

// GET /api/auth/:provider
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	redirectURL := c.Query("redirect_url")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	callbackURL := baseURL + "/api/auth/" + provider + "/callback"

	switch provider {
	case "google":
		goth.UseProviders(google.New(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			callbackURL,
		))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider non supporté"})
		return
	}

	ctx := context.Background()
	state := generateRandomState()
	if redirectURL != "" {
		_ = database.RedisClient.Set(ctx, "oauth_redirect:"+state, redirectURL, 10*time.Minute).Err()
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	q.Set("state", state)
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func generateRandomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// GET /api/auth/:provider/callback
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")
	code := c.Query("code")
	if provider != "google" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètres OAuth invalides"})
		return
	}

	ctx := context.Background()

	// Échange code → token via la config oauth2
	oauthToken, err := config.GoogleOAuthConfig().Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Échange OAuth refusé"})
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + url.QueryEscape(oauthToken.AccessToken))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification Google"})
		return
	}
	defer resp.Body.Close()

	var gu struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil || gu.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Profil Google invalide"})
		return
	}

	user, err := findOrCreateOAuthUser(provider, gu.ID, gu.Email, gu.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	// Retour vers le front : l'URL mémorisée au début du flow, sinon FRONTEND_URL
	redirectURL := os.Getenv("FRONTEND_URL")
	if state != "" {
		if stored, err := database.RedisClient.Get(ctx, "oauth_redirect:"+state).Result(); err == nil && stored != "" {
			redirectURL = stored
			database.RedisClient.Del(ctx, "oauth_redirect:"+state)
		}
	}
	if redirectURL == "" {
		c.JSON(http.StatusOK, gin.H{"token": token, "email": user.Email, "name": user.Name})
		return
	}

	c.Redirect(http.StatusFound, redirectURL+"?token="+url.QueryEscape(token))
}

// findOrCreateOAuthUser rattache l'identité sociale à un utilisateur
// existant (par provider_id) ou en crée un avec le rôle par défaut.
func findOrCreateOAuthUser(provider, providerID, email, name string) (*models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var userUUID gocql.UUID
	err = session.Query(
		`SELECT user_id FROM users_by_provider WHERE provider = ? AND provider_id = ?`,
		provider, providerID,
	).Scan(&userUUID)
	if err == nil {
		return findUserByID(userUUID.String())
	}
	if err != gocql.ErrNotFound {
		return nil, err
	}

	userUUID = gocql.TimeUUID()
	now := time.Now()
	user := models.User{
		ID:         userUUID.String(),
		Name:       name,
		Email:      email,
		Role:       models.RoleUser,
		Provider:   provider,
		ProviderID: providerID,
	}

	if err := session.Query(
		`INSERT INTO users (user_id, email, password, name, role, provider, provider_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userUUID, user.Email, "", user.Name, user.Role, user.Provider, user.ProviderID, now, now,
	).Exec(); err != nil {
		return nil, err
	}

	if err := session.Query(
		`INSERT INTO users_by_provider (provider, provider_id, user_id) VALUES (?, ?, ?)`,
		provider, providerID, userUUID,
	).Exec(); err != nil {
		return nil, err
	}

	return &user, nil
}
