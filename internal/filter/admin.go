package filter

import (
	"net/url"

	"outofschool/internal/types"
	"outofschool/internal/validation"
)

// WorkshopAdminFilter lists workshops for administrators of an institution or provider
type WorkshopAdminFilter struct {
	Offset
	SearchString  string
	InstitutionID string
	ProviderID    string
}

// ParseWorkshopAdmin builds a WorkshopAdminFilter from query parameters
func ParseWorkshopAdmin(params url.Values, opts Options) (WorkshopAdminFilter, error) {
	return parse(params, func(p *validation.Params, v *validation.Violations) WorkshopAdminFilter {
		return WorkshopAdminFilter{
			Offset:        parseOffset(p, v, opts, false),
			SearchString:  p.Text("searchString"),
			InstitutionID: p.UUID("institutionId"),
			ProviderID:    p.UUID("providerId"),
		}
	})
}

// ProviderFilter lists providers
type ProviderFilter struct {
	Offset
	SearchString    string
	Statuses        []types.ProviderStatus
	LicenseStatuses []types.LicenseStatus
	City            string
	InstitutionID   string
}

// ParseProvider builds a ProviderFilter from query parameters
func ParseProvider(params url.Values, opts Options) (ProviderFilter, error) {
	return parse(params, func(p *validation.Params, v *validation.Violations) ProviderFilter {
		return ProviderFilter{
			Offset:          parseOffset(p, v, opts, false),
			SearchString:    p.Text("searchString"),
			Statuses:        validation.EnumList(p, "statuses", types.ProviderStatuses),
			LicenseStatuses: validation.EnumList(p, "licenseStatuses", types.LicenseStatuses),
			City:            p.Text("city"),
			InstitutionID:   p.UUID("institutionId"),
		}
	})
}

// MinistryAdminFilter lists ministry administrators
type MinistryAdminFilter struct {
	Offset
	SearchString  string
	InstitutionID string
	Statuses      []types.AccountStatus
}

// ParseMinistryAdmin builds a MinistryAdminFilter from query parameters
func ParseMinistryAdmin(params url.Values, opts Options) (MinistryAdminFilter, error) {
	return parse(params, func(p *validation.Params, v *validation.Violations) MinistryAdminFilter {
		return MinistryAdminFilter{
			Offset:        parseOffset(p, v, opts, false),
			SearchString:  p.Text("searchString"),
			InstitutionID: p.UUID("institutionId"),
			Statuses:      validation.EnumList(p, "statuses", types.AccountStatuses),
		}
	})
}
