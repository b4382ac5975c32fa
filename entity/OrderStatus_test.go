package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusNext(t *testing.T) {
	assert.Equal(t, StatusConfirmed, StatusPending.Next())
	assert.Equal(t, StatusReadyForPickup, StatusPreparing.Next())
	assert.Equal(t, OrderStatus(""), StatusDelivered.Next())
	assert.Equal(t, OrderStatus(""), OrderStatus("bogus").Next())
}

func TestOrderStatusRank(t *testing.T) {
	for i, st := range OrderStatuses {
		assert.Equal(t, i, st.Rank())
	}
	assert.Equal(t, -1, OrderStatus("bogus").Rank())
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusOutForDelivery, NormalizeStatus("out-for-delivery"))
	assert.Equal(t, StatusOutForDelivery, NormalizeStatus("out_for_delivery"))
	assert.Equal(t, OrderStatus("pending"), NormalizeStatus("pending"))
	assert.False(t, NormalizeStatus("sideways").Valid())
}
