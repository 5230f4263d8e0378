package mysql

const createReviewsSQL = "CREATE TABLE IF NOT EXISTS reviews (\n" +
	"  id          BIGINT AUTO_INCREMENT PRIMARY KEY,\n" +
	"  property_id BIGINT       NOT NULL,\n" +
	"  source_id   VARCHAR(64)  NOT NULL,\n" +
	"  rating      DOUBLE       NULL,\n" +
	"  title       TEXT         NULL,\n" +
	"  `text`      MEDIUMTEXT   NULL,\n" +
	"  created_at  DATETIME     NULL,\n" +
	"  source      VARCHAR(64)  NULL,\n" +
	"  UNIQUE KEY uq_reviews_source (property_id, source_id),\n" +
	"  KEY idx_reviews_property_created (property_id, created_at, id)\n" +
	") CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n  (property_id, source_id, rating, title, `text`, created_at, source)\nVALUES "

// COALESCE keeps the old value if the new one is NULL.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  rating     = COALESCE(VALUES(rating), reviews.rating),\n" +
	"  title      = COALESCE(VALUES(title), reviews.title),\n" +
	"  `text`     = COALESCE(VALUES(`text`), reviews.`text`),\n" +
	"  created_at = COALESCE(VALUES(created_at), reviews.created_at),\n" +
	"  source     = COALESCE(VALUES(source), reviews.source)\n"

// Oldest first so row order, and with it review ids, is stable between runs.
const propertyReviewsSQL = "SELECT title, `text`, rating, created_at, source\n" +
	"FROM reviews\n" +
	"WHERE property_id = ?\n" +
	"ORDER BY created_at IS NULL, created_at, id"
