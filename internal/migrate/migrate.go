package migrate

import (
	"context"

	"audio-mixing-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	CreateExtensions       bool // pgcrypto
	CreateChecks           bool
	CreateIndexes          bool
	CreateUpdatedAtTrigger bool
}

func DefaultOptions() Options {
	return Options{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateUpdatedAtTrigger: true,
	}
}

func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger, opt Options) error {
	log.Info("starting database migration")

	if opt.CreateExtensions {
		if err := db.WithContext(ctx).Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("failed to enable pgcrypto", zap.Error(err))
			return err
		}
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.EmailVerification{},
		&models.PasswordResetToken{},
		&models.Category{},
		&models.Label{},
		&models.Tag{},
		&models.Offering{},
		&models.Variant{},
		&models.Cart{},
		&models.Coupon{},
		&models.CouponProduct{},
		&models.Order{},
		&models.OrderItem{},
		&models.DeliverableFile{},
		&models.Revision{},
		&models.RevisionFile{},
		&models.GiftCard{},
		&models.WebhookEvent{},
		&models.BlogPost{},
	); err != nil {
		log.Error("automigrate failed", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		if err := db.WithContext(ctx).Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_revisions_updated ON revisions;
CREATE TRIGGER trg_revisions_updated
BEFORE UPDATE ON revisions
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("failed to create updated_at triggers", zap.Error(err))
			return err
		}
	}

	if opt.CreateChecks {
		checks := []string{
			`ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('ORDER_STATUS_PENDING','ORDER_STATUS_IN_PROCESS','ORDER_STATUS_DELIVERED','ORDER_STATUS_CANCELLED','ORDER_STATUS_REVISION_REQUESTED'))`,
			`ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_currency_len;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_currency_len
  CHECK (char_length(currency) = 3)`,
			`ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_amount_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_amount_non_negative
  CHECK (amount_cents >= 0)`,
			`ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0)`,
			`ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_max_revision_non_negative;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_max_revision_non_negative
  CHECK (max_revision >= 0)`,
			`ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_prices_non_negative;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_prices_non_negative
  CHECK (unit_price_cents >= 0 AND line_total_cents >= 0)`,
			`ALTER TABLE carts
  DROP CONSTRAINT IF EXISTS chk_carts_quantity_gt_zero;
ALTER TABLE carts
  ADD CONSTRAINT chk_carts_quantity_gt_zero
  CHECK (quantity > 0)`,
			`ALTER TABLE variants
  DROP CONSTRAINT IF EXISTS chk_variants_price_non_negative;
ALTER TABLE variants
  ADD CONSTRAINT chk_variants_price_non_negative
  CHECK (price_cents >= 0)`,
		}
		for _, stmt := range checks {
			if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
				log.Error("failed to create check constraint", zap.Error(err))
				return err
			}
		}
	}

	if opt.CreateIndexes {
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email_lower ON users (lower(email))`,
			`CREATE INDEX IF NOT EXISTS ix_orders_user_created ON orders (user_id, created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS ix_orders_status_created ON orders (status, created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS ix_orders_guest_email ON orders (guest_email) WHERE user_id IS NULL`,
			`CREATE INDEX IF NOT EXISTS ix_revisions_order_offering ON revisions (order_id, offering_id)`,
		}
		for _, stmt := range indexes {
			if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
				log.Error("failed to create index", zap.Error(err))
				return err
			}
		}
	}

	log.Info("database migration finished")
	return nil
}
