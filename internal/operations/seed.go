package operations

import (
	"context"
	stderrors "errors"
	"io"

	"outofschool/internal/db"
	"outofschool/internal/errors"
	"outofschool/internal/logger"

	"gopkg.in/yaml.v3"
)

// Seed loads YAML fixtures from r and imports them in one transaction.
// Unknown keys are rejected; an empty document imports nothing.
func Seed(ctx context.Context, importer FixtureImporter, r io.Reader) (db.ImportStats, error) {
	var fixtures db.Fixtures

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fixtures); err != nil && !stderrors.Is(err, io.EOF) {
		return db.ImportStats{}, errors.Wrap(errors.ErrInvalidInput, "Invalid fixture file", err)
	}

	stats, err := importer.Import(ctx, fixtures)
	if err != nil {
		return stats, err
	}

	logger.WithFields(logger.Fields{
		"providers":         stats.Providers,
		"workshops":         stats.Workshops,
		"applications":      stats.Applications,
		"ministry_admins":   stats.MinistryAdmins,
		"statistic_reports": stats.StatisticReports,
	}).Info("Fixtures imported")
	return stats, nil
}
