package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Pirategrand/savory-cart-portal/entity"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// testDB opens an isolated in-memory database per test. The database is
// named and shared-cache so every pooled connection sees the same schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Restaurant{},
		&entity.FoodItem{}, &entity.NutritionalInfo{},
		&entity.CustomizationGroup{}, &entity.CustomizationChoice{},
		&entity.Order{}, &entity.OrderItem{}, &entity.TrackingUpdate{},
		&entity.DeliveryPartner{},
		&entity.Review{}, &entity.ReviewVote{},
		&entity.PaymentIntent{},
	))
	return db
}
