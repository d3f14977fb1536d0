package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect ouvre la connexion GORM vers le Postgres hébergé (Supabase).
// Le pooler Supabase ne supporte pas les prepared statements, d'où
// PreferSimpleProtocol.
func Connect(dsn string) {
	var err error
	DB, err = gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Erreur de connexion à la base : %v", err)
	}
}
