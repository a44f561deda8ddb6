package db

import (
	"strconv"
	"strings"

	"outofschool/internal/filter"
	"outofschool/internal/repository"
	"outofschool/internal/types"
)

const workshopCardColumns = `w.id, w.title, w.provider_id, p.full_title AS provider_title, w.direction_id,
	w.min_age, w.max_age, w.price, w.status, w.form_of_learning, w.city, w.latitude, w.longitude,
	w.rating, w.created_at`

const workshopFrom = "workshops w JOIN providers p ON p.id = w.provider_id"

// WorkshopCardTable selects workshop cards, best rated first
var WorkshopCardTable = Table{
	From:    workshopFrom,
	Columns: workshopCardColumns,
	Sortable: map[string]string{
		filter.SortRating:    "w.rating",
		filter.SortPrice:     "w.price",
		filter.SortTitle:     "LOWER(w.title)",
		filter.SortCreatedAt: "w.created_at",
	},
	DefaultOrder: repository.Order{{Key: filter.SortRating, Direction: repository.Desc}},
	Key:          "w.id",
}

// NewWorkshopCardRepository returns the relational workshop card source
func NewWorkshopCardRepository(db *DB) *SQLRepository[types.WorkshopCard] {
	return NewSQLRepository[types.WorkshopCard](db, WorkshopCardTable)
}

// WorkshopCardPredicate translates a public workshop search. Geo criteria
// are not expressible here and are ignored.
func WorkshopCardPredicate(f filter.WorkshopFilter) Where {
	var w Where
	w = w.Contains(f.SearchText, "w.title", "w.keywords", "w.description", "p.full_title")
	w = w.In("w.direction_id", f.DirectionIDs)
	// age ranges overlap
	if f.MinAge.IsPresent() {
		w = w.And("w.max_age >= ?", f.MinAge.Get())
	}
	if f.MaxAge.IsPresent() {
		w = w.And("w.min_age <= ?", f.MaxAge.Get())
	}
	if f.IsFree.IsPresent() {
		if f.IsFree.Get() {
			w = w.And("w.price = 0")
		} else {
			w = w.And("w.price > 0")
		}
	}
	if f.MinPrice.IsPresent() {
		w = w.And("w.price >= ?", f.MinPrice.Get())
	}
	if f.MaxPrice.IsPresent() {
		w = w.And("w.price <= ?", f.MaxPrice.Get())
	}
	w = w.In("w.status", f.Statuses)
	w = w.In("w.form_of_learning", f.FormsOfLearning)
	if f.City != "" {
		w = w.And("LOWER(w.city) = ?", strings.ToLower(f.City))
	}
	return w
}

// WorkshopAdminPredicate translates the administration workshop list
func WorkshopAdminPredicate(f filter.WorkshopAdminFilter) Where {
	var w Where
	w = w.Contains(f.SearchString, "w.title")
	if f.InstitutionID != "" {
		w = w.And("w.institution_id = ?", f.InstitutionID)
	}
	if f.ProviderID != "" {
		w = w.And("w.provider_id = ?", f.ProviderID)
	}
	return w
}

// ProviderTable selects providers, newest first
var ProviderTable = Table{
	From:    "providers",
	Columns: "id, full_title, short_title, edrpou, status, license_status, city, institution_id, created_at",
	Sortable: map[string]string{
		filter.SortTitle:     "LOWER(full_title)",
		filter.SortCreatedAt: "created_at",
	},
	DefaultOrder: repository.Order{{Key: filter.SortCreatedAt, Direction: repository.Desc}},
	Key:          "id",
}

func NewProviderRepository(db *DB) *SQLRepository[types.Provider] {
	return NewSQLRepository[types.Provider](db, ProviderTable)
}

// ProviderPredicate matches the search string against titles and the EDRPOU code
func ProviderPredicate(f filter.ProviderFilter) Where {
	var w Where
	w = w.Contains(f.SearchString, "full_title", "short_title", "edrpou")
	w = w.In("status", f.Statuses)
	w = w.In("license_status", f.LicenseStatuses)
	if f.City != "" {
		w = w.And("LOWER(city) = ?", strings.ToLower(f.City))
	}
	if f.InstitutionID != "" {
		w = w.And("institution_id = ?", f.InstitutionID)
	}
	return w
}

// applicationStatusRank orders statuses by the enrollment lifecycle
var applicationStatusRank = func() string {
	var sb strings.Builder
	sb.WriteString("CASE status")
	for i, status := range types.ApplicationStatuses {
		sb.WriteString(" WHEN '")
		sb.WriteString(string(status))
		sb.WriteString("' THEN ")
		sb.WriteString(strconv.Itoa(i))
	}
	sb.WriteString(" END")
	return sb.String()
}()

// ApplicationTable selects applications, newest first
var ApplicationTable = Table{
	From:    "applications",
	Columns: "id, workshop_id, child_id, parent_id, child_full_name, status, is_blocked, creation_time, approved_time",
	Sortable: map[string]string{
		filter.SortStatus:    applicationStatusRank,
		filter.SortChildName: "LOWER(child_full_name)",
		filter.SortCreatedAt: "creation_time",
	},
	DefaultOrder: repository.Order{{Key: filter.SortCreatedAt, Direction: repository.Desc}},
	Key:          "id",
}

func NewApplicationRepository(db *DB) *SQLRepository[types.Application] {
	return NewSQLRepository[types.Application](db, ApplicationTable)
}

// ApplicationPredicate hides blocked applications unless asked for
func ApplicationPredicate(f filter.ApplicationFilter) Where {
	var w Where
	w = w.In("workshop_id", f.WorkshopIDs)
	w = w.In("status", f.Statuses)
	if !f.ShowBlocked {
		w = w.And("is_blocked = ?", false)
	}
	w = w.Contains(f.SearchString, "child_full_name")
	return w
}

// MinistryAdminTable selects ministry administrators by name
var MinistryAdminTable = Table{
	From:    "ministry_admins",
	Columns: "id, first_name, last_name, email, institution_id, account_status, created_at",
	Sortable: map[string]string{
		"lastName":           "LOWER(last_name)",
		"firstName":          "LOWER(first_name)",
		filter.SortCreatedAt: "created_at",
	},
	DefaultOrder: repository.Order{
		{Key: "lastName", Direction: repository.Asc},
		{Key: "firstName", Direction: repository.Asc},
	},
	Key: "id",
}

func NewMinistryAdminRepository(db *DB) *SQLRepository[types.MinistryAdmin] {
	return NewSQLRepository[types.MinistryAdmin](db, MinistryAdminTable)
}

func MinistryAdminPredicate(f filter.MinistryAdminFilter) Where {
	var w Where
	w = w.Contains(f.SearchString, "first_name", "last_name", "email")
	if f.InstitutionID != "" {
		w = w.And("institution_id = ?", f.InstitutionID)
	}
	w = w.In("account_status", f.Statuses)
	return w
}

// StatisticReportTable selects reports, newest first
var StatisticReportTable = Table{
	From:    "statistic_reports",
	Columns: "id, title, report_type, data_type, external_storage_id, created_at",
	Sortable: map[string]string{
		filter.SortCreatedAt: "created_at",
	},
	DefaultOrder: repository.Order{{Key: filter.SortCreatedAt, Direction: repository.Desc}},
	Key:          "id",
}

func NewStatisticReportRepository(db *DB) *SQLRepository[types.StatisticReport] {
	return NewSQLRepository[types.StatisticReport](db, StatisticReportTable)
}

func StatisticReportPredicate(f filter.StatisticReportFilter) Where {
	var w Where
	if f.ReportType.IsPresent() {
		w = w.And("report_type = ?", f.ReportType.Get())
	}
	if f.DataType.IsPresent() {
		w = w.And("data_type = ?", f.DataType.Get())
	}
	return w
}
