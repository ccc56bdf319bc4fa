package chat

import (
	"testing"

	"sustbazaar/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Accommodation{},
		&model.Chat{},
		&model.Message{},
		&model.Notification{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username: username,
		Email:    username + "@student.sust.edu",
		Password: "x",
		Role:     "user",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, owner *model.User, title string) *model.Product {
	t.Helper()

	product := &model.Product{OwnerID: owner.ID, Title: title, Price: 500}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedAccommodation(t *testing.T, db *gorm.DB, owner *model.User, title string) *model.Accommodation {
	t.Helper()

	accommodation := &model.Accommodation{OwnerID: owner.ID, Title: title, Location: "Akhalia"}
	require.NoError(t, db.Create(accommodation).Error)
	return accommodation
}

func productRef(p *model.Product) ListingRef {
	id := p.ID
	return ListingRef{ProductID: &id}
}

func accommodationRef(a *model.Accommodation) ListingRef {
	id := a.ID
	return ListingRef{AccommodationID: &id}
}
