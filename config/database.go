package config

import (
	"fmt"
	"log"
	"os"

	"github.com/wander-list/api-go/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func GetR2Config() *R2Config {
	return &R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("CLOUDFLARE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("CLOUDFLARE_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("CLOUDFLARE_BUCKET_NAME"),
		PublicURL:       os.Getenv("CLOUDFLARE_PUBLIC_URL"),
		Region:          "auto",
	}
}

// InitDB connects with DATABASE_URL when set (hosted Postgres hands out a
// single URL), falling back to the discrete DB_* variables, then migrates
// the schema and installs the publish_draft procedure.
func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto Migrate models
	db.AutoMigrate(
		&models.User{}, &models.RefreshToken{},
		&models.Draft{}, &models.DraftDay{}, &models.DraftStop{},
		&models.DraftCharacteristics{}, &models.DraftTransportation{},
		&models.DraftAccommodation{}, &models.DraftTravelTips{},
		&models.Itinerary{}, &models.Wishlist{}, &models.ActivityLog{},
	)

	if err := db.Exec(publishDraftSQL).Error; err != nil {
		log.Fatal("Failed to install publish_draft procedure:", err)
	}

	return db
}

// publish_draft snapshots a draft into the itineraries table and flips
// is_published in one transaction, returning the new itinerary id.
const publishDraftSQL = `
CREATE OR REPLACE FUNCTION publish_draft(draft_id_input uuid)
RETURNS uuid AS $$
DECLARE
    new_id uuid;
BEGIN
    INSERT INTO itineraries (
        id, draft_id, creator_id, title, destination, country, country_code,
        region, city, latitude, longitude, place_id, duration_days,
        description, cover_image_url, price_tier, view_count, total_sales,
        published_at, created_at, updated_at
    )
    SELECT gen_random_uuid(), d.id, d.user_id, d.title, d.destination,
           d.country, d.country_code, d.region, d.city, d.latitude,
           d.longitude, d.place_id, d.duration_days, d.description,
           d.cover_image_url, d.price_tier, 0, 0, now(), now(), now()
    FROM drafts d
    WHERE d.id = draft_id_input AND d.is_published = false
    RETURNING id INTO new_id;

    IF new_id IS NULL THEN
        RAISE EXCEPTION 'draft % not found or already published', draft_id_input;
    END IF;

    UPDATE drafts SET is_published = true, updated_at = now()
    WHERE id = draft_id_input;

    RETURN new_id;
END;
$$ LANGUAGE plpgsql;
`
