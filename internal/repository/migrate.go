package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the repositories read and write.
// The partial exclusion constraint forbidding overlapping approved intervals
// per target (reservations_no_overlap) is Postgres-only and lives in the
// deployment migrations; SQLite runs without it and relies on the service
// checks alone.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&resourceModel{},
		&reservationModel{},
		&intentionModel{},
		&pushSubscriptionModel{},
	)
}
