package types

import "strings"

// WorkshopStatus is the enrollment state of a workshop
type WorkshopStatus string

const (
	WorkshopOpen   WorkshopStatus = "open"
	WorkshopClosed WorkshopStatus = "closed"
)

// WorkshopStatuses lists every WorkshopStatus
var WorkshopStatuses = []WorkshopStatus{WorkshopOpen, WorkshopClosed}

// FormOfLearning describes where a workshop takes place
type FormOfLearning string

const (
	LearningOffline FormOfLearning = "offline"
	LearningOnline  FormOfLearning = "online"
	LearningMixed   FormOfLearning = "mixed"
)

var FormsOfLearning = []FormOfLearning{LearningOffline, LearningOnline, LearningMixed}

// ProviderStatus is the moderation state of a provider
type ProviderStatus string

const (
	ProviderPending  ProviderStatus = "pending"
	ProviderApproved ProviderStatus = "approved"
	ProviderEditing  ProviderStatus = "editing"
	ProviderRecheck  ProviderStatus = "recheck"
	ProviderBlocked  ProviderStatus = "blocked"
)

var ProviderStatuses = []ProviderStatus{ProviderPending, ProviderApproved, ProviderEditing, ProviderRecheck, ProviderBlocked}

// LicenseStatus is the state of a provider's education license
type LicenseStatus string

const (
	LicenseNotProvided LicenseStatus = "notProvided"
	LicensePending     LicenseStatus = "pending"
	LicenseApproved    LicenseStatus = "approved"
)

var LicenseStatuses = []LicenseStatus{LicenseNotProvided, LicensePending, LicenseApproved}

// ApplicationStatus is the state of a child's enrollment application
type ApplicationStatus string

const (
	ApplicationPending              ApplicationStatus = "pending"
	ApplicationAcceptedForSelection ApplicationStatus = "acceptedForSelection"
	ApplicationApproved             ApplicationStatus = "approved"
	ApplicationStudyingForYears     ApplicationStatus = "studyingForYears"
	ApplicationCompleted            ApplicationStatus = "completed"
	ApplicationRejected             ApplicationStatus = "rejected"
	ApplicationLeft                 ApplicationStatus = "left"
)

var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending,
	ApplicationAcceptedForSelection,
	ApplicationApproved,
	ApplicationStudyingForYears,
	ApplicationCompleted,
	ApplicationRejected,
	ApplicationLeft,
}

// AccountStatus is the state of an administrator account
type AccountStatus string

const (
	AccountAccepted AccountStatus = "accepted"
	AccountPending  AccountStatus = "pending"
	AccountBlocked  AccountStatus = "blocked"
)

var AccountStatuses = []AccountStatus{AccountAccepted, AccountPending, AccountBlocked}

// ReportType is the period a statistic report covers
type ReportType string

const (
	ReportWorkshopsDaily   ReportType = "workshopsDaily"
	ReportWorkshopsMonthly ReportType = "workshopsMonthly"
	ReportWorkshopsYearly  ReportType = "workshopsYearly"
)

var ReportTypes = []ReportType{ReportWorkshopsDaily, ReportWorkshopsMonthly, ReportWorkshopsYearly}

// ReportDataType is the file format of a statistic report
type ReportDataType string

const (
	ReportCSV  ReportDataType = "csv"
	ReportHTML ReportDataType = "html"
)

var ReportDataTypes = []ReportDataType{ReportCSV, ReportHTML}

// WorkshopOrder selects the ordering of workshop search results
type WorkshopOrder string

const (
	OrderByRating    WorkshopOrder = "rating"
	OrderByPriceAsc  WorkshopOrder = "priceAsc"
	OrderByPriceDesc WorkshopOrder = "priceDesc"
	OrderByAlphabet  WorkshopOrder = "alphabet"
	OrderByNewest    WorkshopOrder = "newest"
	OrderByNearest   WorkshopOrder = "nearest"
)

var WorkshopOrders = []WorkshopOrder{OrderByRating, OrderByPriceAsc, OrderByPriceDesc, OrderByAlphabet, OrderByNewest, OrderByNearest}

// ParseEnum matches raw against members ignoring case and returns the canonical member
func ParseEnum[E ~string](raw string, members []E) (E, bool) {
	for _, m := range members {
		if strings.EqualFold(string(m), raw) {
			return m, true
		}
	}
	var zero E
	return zero, false
}

// EnumNames joins the members of an enumeration for error messages
func EnumNames[E ~string](members []E) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
