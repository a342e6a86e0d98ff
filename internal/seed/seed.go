// Package seed loads demo candidate data into a well-known session so a
// fresh deployment can be queried immediately.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/config"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/ingest"
)

// Built-in candidates used when no seed directory is configured.
var sampleCVs = []struct {
	source string
	text   string
}{
	{
		source: "alice-johnson.txt",
		text: `Alice Johnson
Senior Backend Engineer
Email: alice.johnson@example.com
Address: 42 Harbor Street, Portland

SUMMARY
Backend engineer with eight years of experience building Go and Python
services, message pipelines and Postgres-backed APIs.

EXPERIENCE
Lead Backend Engineer, Finch Labs (2021-present)
Designed the ingestion pipeline for a document search product.

Backend Engineer, Cobalt Systems (2017-2021)
Built billing and reporting services in Go.

SKILLS
Go, Python, PostgreSQL, Kafka, Docker, Kubernetes`,
	},
	{
		source: "marcus-lee.txt",
		text: `Marcus Lee
Frontend Developer
Email: marcus.lee@example.com
Address: 17 Birch Avenue, Austin

SUMMARY
Frontend developer focused on React and TypeScript with a background in
design systems and accessibility.

EXPERIENCE
Frontend Developer, Nimbus (2020-present)
Owns the component library used across three product teams.

SKILLS
TypeScript, React, CSS, Storybook, Jest`,
	},
}

// Run seeds the configured session. An already-populated session is left
// untouched so restarts do not duplicate or replace data.
func Run(ctx context.Context, svc *ingest.Service, cfg config.SeedConfig) error {
	if !cfg.Enabled {
		return nil
	}

	empty, err := svc.IsEmpty(ctx, cfg.SessionID)
	if err != nil {
		return fmt.Errorf("checking seed session: %w", err)
	}
	if !empty {
		log.Debug().Str("session", cfg.SessionID).Msg("Seed session already populated, skipping")
		return nil
	}

	if cfg.Dir != "" {
		summary, err := svc.IngestDirectory(ctx, cfg.Dir, cfg.SessionID)
		if err != nil {
			return fmt.Errorf("seeding from %s: %w", cfg.Dir, err)
		}
		log.Info().Str("dir", cfg.Dir).Int("ok", summary.Successful).Int("failed", summary.Failed).
			Str("session", cfg.SessionID).Msg("Seeded sample data from directory")
		return nil
	}

	return Samples(ctx, svc, cfg.SessionID)
}

// Samples ingests the built-in demo candidates into the session.
func Samples(ctx context.Context, svc *ingest.Service, sessionID string) error {
	for _, cv := range sampleCVs {
		if _, err := svc.IngestText(ctx, cv.text, cv.source, sessionID); err != nil {
			return fmt.Errorf("seeding %s: %w", cv.source, err)
		}
	}
	log.Info().Int("candidates", len(sampleCVs)).Str("session", sessionID).Msg("Seeded built-in sample data")
	return nil
}
