package user

import (
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"

	"tienda_back_end/internal/models"
)

// fakeUserAccounts simule users + users_by_email en mémoire.
type fakeUserAccounts struct {
	reserved   map[string]gocql.UUID
	users      []models.User
	released   []string
	failInsert bool
}

func newFakeUserAccounts() *fakeUserAccounts {
	return &fakeUserAccounts{reserved: map[string]gocql.UUID{}}
}

func (f *fakeUserAccounts) ReserveEmail(email string, userID gocql.UUID) (bool, error) {
	if _, ok := f.reserved[email]; ok {
		return false, nil
	}
	f.reserved[email] = userID
	return true, nil
}

func (f *fakeUserAccounts) InsertUser(user models.User, userID gocql.UUID, now time.Time) error {
	if f.failInsert {
		return errors.New("write timeout")
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserAccounts) ReleaseEmail(email string) error {
	delete(f.reserved, email)
	f.released = append(f.released, email)
	return nil
}

func TestCreateLocalUser(t *testing.T) {
	store := newFakeUserAccounts()
	user := models.User{Email: "nuevo@tienda.local", Role: models.RoleUser}

	err := createLocalUser(store, user, gocql.TimeUUID(), time.Now())

	assert.NoError(t, err)
	assert.Len(t, store.users, 1)
	assert.Empty(t, store.released)
}

func TestCreateLocalUserRejectsDuplicateEmail(t *testing.T) {
	store := newFakeUserAccounts()
	store.reserved["pris@tienda.local"] = gocql.TimeUUID()
	user := models.User{Email: "pris@tienda.local", Role: models.RoleUser}

	err := createLocalUser(store, user, gocql.TimeUUID(), time.Now())

	assert.ErrorIs(t, err, errEmailTaken)
	assert.Empty(t, store.users)
}

func TestCreateLocalUserReleasesEmailWhenInsertFails(t *testing.T) {
	// L'échec de l'insert users doit libérer la réservation, sinon
	// l'adresse resterait bloquée à jamais sans compte derrière
	store := newFakeUserAccounts()
	store.failInsert = true
	user := models.User{Email: "nuevo@tienda.local", Role: models.RoleUser}

	err := createLocalUser(store, user, gocql.TimeUUID(), time.Now())

	assert.Error(t, err)
	assert.Contains(t, store.released, "nuevo@tienda.local")

	// L'adresse redevient utilisable
	store.failInsert = false
	assert.NoError(t, createLocalUser(store, user, gocql.TimeUUID(), time.Now()))
	assert.Len(t, store.users, 1)
}
