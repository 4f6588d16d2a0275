package admin

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"tienda_back_end/internal/database"
	"tienda_back_end/internal/models"
)

const auditDefaultLimit = 100

//
// 📜 GET /api/admin/audit?limit=
//
func GetAuditLogs(c *gin.Context) {
	limit := auditDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Limite invalide"})
			return
		}
		limit = parsed
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(
		`SELECT id, user_id, user_email, action, resource, resource_id,
		        old_value, new_value, ip_address, user_agent, success,
		        error_msg, timestamp
		 FROM audit_logs LIMIT ?`, limit,
	).Iter()

	logs := []models.AuditLog{}
	var entry models.AuditLog
	for iter.Scan(&entry.ID, &entry.UserID, &entry.UserEmail, &entry.Action,
		&entry.Resource, &entry.ResourceID, &entry.OldValue, &entry.NewValue,
		&entry.IPAddress, &entry.UserAgent, &entry.Success, &entry.ErrorMsg,
		&entry.Timestamp) {
		logs = append(logs, entry)
		entry = models.AuditLog{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture logs: " + err.Error()})
		return
	}

	// Les plus récents d'abord
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})

	c.JSON(http.StatusOK, logs)
}
