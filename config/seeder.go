package config

import (
	"log"

	"github.com/AlvinAbiero/online-marketplace/models"
	"github.com/AlvinAbiero/online-marketplace/utils"

	"gorm.io/gorm"
)

func SeedUsers(db *gorm.DB) {
	log.Println("🌱 Seeding users...")

	password, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Email:     "seller@example.com",
			Password:  password,
			FirstName: "Sarah",
			LastName:  "Seller",
			Role:      models.RoleSeller,
		},
		{
			Email:     "buyer@example.com",
			Password:  password,
			FirstName: "Ben",
			LastName:  "Buyer",
			Role:      models.RoleBuyer,
		},
	}

	for _, user := range users {
		var existingUser models.User
		if err := db.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&user).Error; err != nil {
					log.Printf("Failed to seed user %s: %v", user.Email, err)
				} else {
					log.Printf("User seeded: %s (ID: %d)", user.Email, user.ID)
				}
			}
		} else {
			log.Printf("User already exists: %s", user.Email)
		}
	}

	log.Println("✅ Seeding complete.")
}
