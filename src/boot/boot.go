package boot

import (
	"log"
	"sbs/src/db"
	"sbs/src/lib"
	"sbs/src/models"
)

func InitDb() {
	db := db.GetDb()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Campaign{},
		&models.CampaignCard{},
		&models.GalleryCard{},
		&models.AvailabilityRule{},
		&models.AvailabilityOverride{},
		&models.AvailabilityAuditLog{},
		&models.BookingRequest{},
		&models.BookingSlotHold{},
		&models.Booking{},
	); err != nil {
		log.Fatalf("Error on AutoMigrate: %s\n", err.Error())
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Fatalf("Error initializing scheduler: %s\n", err.Error())
	}
	sched.Start()
}
