package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"outofschool/internal/db"
	"outofschool/internal/types"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Provider IDs used by SampleFixtures
const (
	ProviderArt      = "00000000-0000-4000-8000-0000000000a1"
	ProviderRobotics = "00000000-0000-4000-8000-0000000000a2"
	InstitutionID    = "00000000-0000-4000-8000-0000000000f1"
)

// SetupTestDB creates a migrated in-memory database
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	rawDB, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	rawDB.SetMaxOpenConns(1)

	_, err = rawDB.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	database := db.Wrap(sqlx.NewDb(rawDB, db.DriverSQLite))
	require.NoError(t, database.Migrate())

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

// SeedDB imports fixtures into database
func SeedDB(t *testing.T, database *db.DB, fixtures db.Fixtures) {
	t.Helper()
	_, err := db.NewStore(database).Import(context.Background(), fixtures)
	require.NoError(t, err)
}

// WorkshopID returns a stable workshop ID for index i
func WorkshopID(i int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", i)
}

// SampleFixtures returns a small catalog: two providers, n workshops spread
// over both of them with a few applications, admins and reports.
//
// Workshop i costs (i%4)*100, is rated i%5, belongs to direction i%3+1 and
// sits in Kyiv for even i and in Львів for odd i.
func SampleFixtures(n int) db.Fixtures {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	f := db.Fixtures{
		Providers: []types.Provider{
			{ID: ProviderArt, FullTitle: "Art School Kalyna", ShortTitle: "Kalyna", EDRPOU: "12345678",
				Status: types.ProviderApproved, LicenseStatus: types.LicenseApproved, City: "Kyiv",
				InstitutionID: InstitutionID, CreatedAt: created},
			{ID: ProviderRobotics, FullTitle: "Robotics Lab", ShortTitle: "RoboLab", EDRPOU: "87654321",
				Status: types.ProviderPending, LicenseStatus: types.LicensePending, City: "Lviv",
				InstitutionID: InstitutionID, CreatedAt: created.Add(time.Hour)},
		},
	}

	for i := 0; i < n; i++ {
		provider, title, city := ProviderArt, fmt.Sprintf("Painting %02d", i), "Kyiv"
		lat, lon := 50.45+float64(i)*0.001, 30.52
		if i%2 == 1 {
			provider, title, city = ProviderRobotics, fmt.Sprintf("Robotics %02d", i), "Львів"
			lat, lon = 49.84+float64(i)*0.001, 24.03
		}
		f.Workshops = append(f.Workshops, types.Workshop{
			WorkshopCard: types.WorkshopCard{
				ID:             WorkshopID(i),
				Title:          title,
				ProviderID:     provider,
				DirectionID:    int64(i%3 + 1),
				MinAge:         6,
				MaxAge:         10 + i%5,
				Price:          float64(i%4) * 100,
				Status:         types.WorkshopOpen,
				FormOfLearning: types.LearningOffline,
				City:           city,
				Latitude:       lat,
				Longitude:      lon,
				Rating:         float64(i % 5),
				CreatedAt:      created.Add(time.Duration(i) * time.Minute),
			},
			Keywords:      "kids creative",
			InstitutionID: InstitutionID,
		})
	}

	if n > 0 {
		f.Applications = []types.Application{
			{ID: "00000000-0000-4000-8000-0000000000b1", WorkshopID: WorkshopID(0), ChildID: "child-1",
				ParentID: "parent-1", ChildFullName: "Shevchenko Taras", Status: types.ApplicationPending,
				CreationTime: created},
			{ID: "00000000-0000-4000-8000-0000000000b2", WorkshopID: WorkshopID(0), ChildID: "child-2",
				ParentID: "parent-2", ChildFullName: "Ukrainka Lesia", Status: types.ApplicationApproved,
				CreationTime: created.Add(time.Hour)},
			{ID: "00000000-0000-4000-8000-0000000000b3", WorkshopID: WorkshopID(0), ChildID: "child-3",
				ParentID: "parent-3", ChildFullName: "Franko Ivan", Status: types.ApplicationRejected,
				IsBlocked: true, CreationTime: created.Add(2 * time.Hour)},
		}
	}

	f.MinistryAdmins = []types.MinistryAdmin{
		{ID: "00000000-0000-4000-8000-0000000000c1", FirstName: "Олена", LastName: "Bondar",
			Email: "olena@example.com", InstitutionID: InstitutionID, AccountStatus: types.AccountAccepted, CreatedAt: created},
		{ID: "00000000-0000-4000-8000-0000000000c2", FirstName: "Petro", LastName: "Antonenko",
			Email: "petro@example.com", InstitutionID: InstitutionID, AccountStatus: types.AccountPending, CreatedAt: created},
	}

	f.StatisticReports = []types.StatisticReport{
		{ID: "00000000-0000-4000-8000-0000000000d1", Title: "Daily", ReportType: types.ReportWorkshopsDaily,
			DataType: types.ReportCSV, ExternalStorageID: "file-1", CreatedAt: created},
		{ID: "00000000-0000-4000-8000-0000000000d2", Title: "Monthly", ReportType: types.ReportWorkshopsMonthly,
			DataType: types.ReportHTML, ExternalStorageID: "file-2", CreatedAt: created.Add(time.Hour)},
	}

	return f
}
