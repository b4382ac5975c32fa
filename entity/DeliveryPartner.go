package entity

import (
	"gorm.io/gorm"
)

type DeliveryPartner struct {
	gorm.Model
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Vehicle     string `json:"vehicle"`
	Photo       string `json:"photo"`
	Available   bool   `gorm:"default:true" json:"available"`

	Orders []Order `gorm:"foreignKey:DeliveryPartnerID" json:"-"`
}
