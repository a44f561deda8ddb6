package types

import "time"

// WorkshopCard is the list projection of a workshop
type WorkshopCard struct {
	ID             string         `json:"id" db:"id" yaml:"id"`
	Title          string         `json:"title" db:"title" yaml:"title"`
	ProviderID     string         `json:"providerId" db:"provider_id" yaml:"providerId"`
	ProviderTitle  string         `json:"providerTitle" db:"provider_title" yaml:"-"`
	DirectionID    int64          `json:"directionId" db:"direction_id" yaml:"directionId"`
	MinAge         int            `json:"minAge" db:"min_age" yaml:"minAge"`
	MaxAge         int            `json:"maxAge" db:"max_age" yaml:"maxAge"`
	Price          float64        `json:"price" db:"price" yaml:"price"`
	Status         WorkshopStatus `json:"status" db:"status" yaml:"status"`
	FormOfLearning FormOfLearning `json:"formOfLearning" db:"form_of_learning" yaml:"formOfLearning"`
	City           string         `json:"city" db:"city" yaml:"city"`
	Latitude       float64        `json:"latitude" db:"latitude" yaml:"latitude"`
	Longitude      float64        `json:"longitude" db:"longitude" yaml:"longitude"`
	Rating         float64        `json:"rating" db:"rating" yaml:"rating"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at" yaml:"createdAt"`
}

// IsFree reports whether the workshop has no fee
func (c WorkshopCard) IsFree() bool {
	return c.Price == 0
}

// Workshop is the persisted workshop record
type Workshop struct {
	WorkshopCard  `yaml:",inline"`
	Keywords      string    `json:"keywords" db:"keywords" yaml:"keywords"`
	Description   string    `json:"description" db:"description" yaml:"description"`
	InstitutionID string    `json:"institutionId" db:"institution_id" yaml:"institutionId"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at" yaml:"updatedAt"`
}

// Provider is an organization offering workshops
type Provider struct {
	ID            string         `json:"id" db:"id" yaml:"id"`
	FullTitle     string         `json:"fullTitle" db:"full_title" yaml:"fullTitle"`
	ShortTitle    string         `json:"shortTitle" db:"short_title" yaml:"shortTitle"`
	EDRPOU        string         `json:"edrpou" db:"edrpou" yaml:"edrpou"`
	Status        ProviderStatus `json:"status" db:"status" yaml:"status"`
	LicenseStatus LicenseStatus  `json:"licenseStatus" db:"license_status" yaml:"licenseStatus"`
	City          string         `json:"city" db:"city" yaml:"city"`
	InstitutionID string         `json:"institutionId" db:"institution_id" yaml:"institutionId"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at" yaml:"createdAt"`
}

// Application is a child's enrollment request for a workshop
type Application struct {
	ID            string            `json:"id" db:"id" yaml:"id"`
	WorkshopID    string            `json:"workshopId" db:"workshop_id" yaml:"workshopId"`
	ChildID       string            `json:"childId" db:"child_id" yaml:"childId"`
	ParentID      string            `json:"parentId" db:"parent_id" yaml:"parentId"`
	ChildFullName string            `json:"childFullName" db:"child_full_name" yaml:"childFullName"`
	Status        ApplicationStatus `json:"status" db:"status" yaml:"status"`
	IsBlocked     bool              `json:"isBlocked" db:"is_blocked" yaml:"isBlocked"`
	CreationTime  time.Time         `json:"creationTime" db:"creation_time" yaml:"creationTime"`
	ApprovedTime  *time.Time        `json:"approvedTime,omitempty" db:"approved_time" yaml:"approvedTime,omitempty"`
}

// MinistryAdmin is an administrator of a ministry institution
type MinistryAdmin struct {
	ID            string        `json:"id" db:"id" yaml:"id"`
	FirstName     string        `json:"firstName" db:"first_name" yaml:"firstName"`
	LastName      string        `json:"lastName" db:"last_name" yaml:"lastName"`
	Email         string        `json:"email" db:"email" yaml:"email"`
	InstitutionID string        `json:"institutionId" db:"institution_id" yaml:"institutionId"`
	AccountStatus AccountStatus `json:"accountStatus" db:"account_status" yaml:"accountStatus"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at" yaml:"createdAt"`
}

// StatisticReport is a generated report stored in external file storage
type StatisticReport struct {
	ID                string         `json:"id" db:"id" yaml:"id"`
	Title             string         `json:"title" db:"title" yaml:"title"`
	ReportType        ReportType     `json:"reportType" db:"report_type" yaml:"reportType"`
	DataType          ReportDataType `json:"dataType" db:"data_type" yaml:"dataType"`
	ExternalStorageID string         `json:"externalStorageId" db:"external_storage_id" yaml:"externalStorageId"`
	CreatedAt         time.Time      `json:"createdAt" db:"created_at" yaml:"createdAt"`
}
