package migrations

import (
	"github.com/ContentGuard/ModGate/pkg/infra/database"
	"gorm.io/gorm"
)

// Tables: moderation_requests, moderation_verdicts, notification_attempts
func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250301_initial_schema",
		Name: "Create moderation tables: requests, verdicts, notification attempts",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE EXTENSION IF NOT EXISTS pgcrypto;
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS public.moderation_requests (
					id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					submitter    TEXT NOT NULL,
					content_kind TEXT NOT NULL,
					fingerprint  CHAR(64) NOT NULL,
					status       TEXT NOT NULL DEFAULT 'pending',
					created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			// Dedup lookups scan by fingerprint and kind, newest first.
			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_moderation_requests_fingerprint
				ON public.moderation_requests (content_kind, fingerprint, created_at DESC);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_moderation_requests_submitter
				ON public.moderation_requests (submitter);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS public.moderation_verdicts (
					id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					request_id       UUID NOT NULL REFERENCES public.moderation_requests(id) ON DELETE CASCADE,
					classification   TEXT NOT NULL,
					confidence       DOUBLE PRECISION NOT NULL DEFAULT 0.5,
					reasoning        TEXT,
					raw_response     TEXT,
					upstream_flagged BOOLEAN NOT NULL DEFAULT FALSE,
					created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_moderation_verdicts_request
				ON public.moderation_verdicts (request_id, created_at DESC);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS public.notification_attempts (
					id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					request_id   UUID NOT NULL REFERENCES public.moderation_requests(id) ON DELETE CASCADE,
					channel      TEXT NOT NULL,
					outcome      TEXT NOT NULL,
					error_detail TEXT,
					sent_at      TIMESTAMPTZ,
					created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_notification_attempts_request
				ON public.notification_attempts (request_id);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP TABLE IF EXISTS public.notification_attempts;`).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TABLE IF EXISTS public.moderation_verdicts;`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP TABLE IF EXISTS public.moderation_requests;`).Error
		},
	})
}
