package filter

import (
	"net/url"

	"outofschool/internal/repository"
	"outofschool/internal/types"
	"outofschool/internal/validation"
)

// ApplicationFilter lists enrollment applications. Size 0 returns every match.
type ApplicationFilter struct {
	Offset
	WorkshopIDs           []string
	Statuses              []types.ApplicationStatus
	ShowBlocked           bool
	SearchString          string
	OrderByDateAscending  bool
	OrderByAlphabetically bool
	OrderByStatus         bool
}

// Order implements repository.Pageable: status, then child name, then creation time
func (f ApplicationFilter) Order() repository.Order {
	var order repository.Order
	if f.OrderByStatus {
		order = append(order, repository.SortField{Key: SortStatus, Direction: repository.Asc})
	}
	if f.OrderByAlphabetically {
		order = append(order, repository.SortField{Key: SortChildName, Direction: repository.Asc})
	}
	direction := repository.Desc
	if f.OrderByDateAscending {
		direction = repository.Asc
	}
	return append(order, repository.SortField{Key: SortCreatedAt, Direction: direction})
}

// ParseApplication builds an ApplicationFilter from query parameters
func ParseApplication(params url.Values, opts Options) (ApplicationFilter, error) {
	return parse(params, func(p *validation.Params, v *validation.Violations) ApplicationFilter {
		return ApplicationFilter{
			Offset:                parseOffset(p, v, opts, true),
			WorkshopIDs:           p.UUIDs("workshopIds"),
			Statuses:              validation.EnumList(p, "statuses", types.ApplicationStatuses),
			ShowBlocked:           p.Bool("showBlocked"),
			SearchString:          p.Text("searchString"),
			OrderByDateAscending:  p.Bool("orderByDateAscending"),
			OrderByAlphabetically: p.Bool("orderByAlphabetically"),
			OrderByStatus:         p.Bool("orderByStatus"),
		}
	})
}

// StatisticReportFilter lists generated reports. Size 0 returns every match.
type StatisticReportFilter struct {
	Offset
	ReportType types.Option[types.ReportType]
	DataType   types.Option[types.ReportDataType]
}

// ParseStatisticReport builds a StatisticReportFilter from query parameters
func ParseStatisticReport(params url.Values, opts Options) (StatisticReportFilter, error) {
	return parse(params, func(p *validation.Params, v *validation.Violations) StatisticReportFilter {
		return StatisticReportFilter{
			Offset:     parseOffset(p, v, opts, true),
			ReportType: validation.EnumValue(p, "reportType", types.ReportTypes),
			DataType:   validation.EnumValue(p, "dataType", types.ReportDataTypes),
		}
	})
}
