package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes fréquentes
	stmtGetUserByEmail *gocql.Query
	stmtGetUserByID    *gocql.Query
	stmtGetCartByUser  *gocql.Query
	stmtGetCartItems   *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		usersSession, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements users: %v", err)
			return
		}

		// Requête pour récupérer user_id par email
		stmtGetUserByEmail = usersSession.Query("SELECT user_id FROM users_by_email WHERE email = ?")

		// Requête pour récupérer un utilisateur par ID
		stmtGetUserByID = usersSession.Query(`SELECT email, password, name, role, provider, provider_id
			FROM users WHERE user_id = ?`)

		ordersSession, err := GetOrdersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements orders: %v", err)
			return
		}

		// Requêtes panier (chemin chaud : rechargées après chaque mutation)
		stmtGetCartByUser = ordersSession.Query("SELECT cart_id FROM carts WHERE user_id = ?")
		stmtGetCartItems = ordersSession.Query("SELECT product_id, quantity, added_at FROM cart_items WHERE cart_id = ?")

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetUserByEmail() *gocql.Query {
	return stmtGetUserByEmail
}

func GetPreparedGetUserByID() *gocql.Query {
	return stmtGetUserByID
}

func GetPreparedGetCartByUser() *gocql.Query {
	return stmtGetCartByUser
}

func GetPreparedGetCartItems() *gocql.Query {
	return stmtGetCartItems
}
