package domain

import (
	"regexp"
	"strings"
)

// Search pagination defaults for the CRM.
const (
	HubSpotDefaultLimit = 100
	HubSpotDefaultAfter = 0
)

// ObjectType describes one CRM object type the tool can operate on.
type ObjectType struct {
	// Name is the singular name used on the command line (e.g., "deal").
	Name string
	// Path is the path segment of the v3 objects API (e.g., "deals").
	Path string
	// AlternateKey is the idProperty usable instead of the record ID when
	// fetching ("" when the type has none).
	AlternateKey string
	// Synthetic is true when list/search results of this type pass through
	// synthetic-record filtering.
	Synthetic bool
}

// objectTypes is the supported set, in the order usage text lists them.
var objectTypes = []ObjectType{
	{Name: "contact", Path: "contacts", AlternateKey: "email"},
	{Name: "company", Path: "companies", AlternateKey: "domain"},
	{Name: "deal", Path: "deals", Synthetic: true},
}

// SupportedObjectTypes returns the names of every supported object type.
func SupportedObjectTypes() []string {
	names := make([]string, 0, len(objectTypes))
	for _, t := range objectTypes {
		names = append(names, t.Name)
	}
	return names
}

// ResolveObjectType matches an object-type name case-insensitively against
// the supported set. An unknown name yields an UnsupportedObjectTypeError
// enumerating the supported types.
func ResolveObjectType(name string) (ObjectType, error) {
	lowered := strings.ToLower(name)
	for _, t := range objectTypes {
		if t.Name == lowered {
			return t, nil
		}
	}
	return ObjectType{}, &UnsupportedObjectTypeError{
		ObjectType: name,
		Supported:  SupportedObjectTypes(),
	}
}

// PropertiesEnvelope wraps a caller-supplied property mapping under the
// "properties" key, the shape the v3 objects API requires for create and
// update.
type PropertiesEnvelope struct {
	Properties map[string]interface{} `json:"properties"`
}

// CRMSearchBody is the request body for an object search.
type CRMSearchBody struct {
	Query string `json:"query,omitempty"`
	Limit int    `json:"limit"`
	After int    `json:"after"`
}

// NewCRMSearchBody builds a search body applying the documented defaults:
// limit 100 and offset 0 when omitted. Explicit values override exactly.
func NewCRMSearchBody(query string, limit, after *int) *CRMSearchBody {
	body := &CRMSearchBody{
		Query: query,
		Limit: HubSpotDefaultLimit,
		After: HubSpotDefaultAfter,
	}
	if limit != nil {
		body.Limit = *limit
	}
	if after != nil {
		body.After = *after
	}
	return body
}

// CRMRecord is one object in a list or search response. Properties stay
// opaque except for the display name examined by synthetic filtering.
type CRMRecord struct {
	ID         FlexibleID             `json:"id"`
	Properties map[string]interface{} `json:"properties"`
}

// DisplayName returns the record's display property, or "" when absent.
// Deals are displayed by dealname.
func (r *CRMRecord) DisplayName() string {
	name, _ := r.Properties["dealname"].(string)
	return name
}

// CRMPage is a list or search response page.
type CRMPage struct {
	// Total is the service-reported total for search responses. It counts
	// matches before any client-side filtering.
	Total   int         `json:"total"`
	Results []CRMRecord `json:"results"`
}

// syntheticDealPattern matches deals created automatically by tenant
// provisioning rather than by a human.
var syntheticDealPattern = regexp.MustCompile(`^tenant-[0-9a-f]{8,}(-.*)?$`)

// IsSyntheticDeal reports whether a display name identifies an
// auto-generated tenant deal.
func IsSyntheticDeal(displayName string) bool {
	return syntheticDealPattern.MatchString(displayName)
}

// FilteredPage is a page with synthetic records removed. Count is recomputed
// from the filtered results; ReportedTotal preserves the unfiltered total
// the service returned, for comparison.
type FilteredPage struct {
	Count         int         `json:"count"`
	ReportedTotal int         `json:"reportedTotal"`
	Results       []CRMRecord `json:"results"`
}

// FilterSyntheticRecords removes every result whose display name matches the
// auto-generated tenant pattern and recomputes the count from what remains.
func FilterSyntheticRecords(page *CRMPage) *FilteredPage {
	filtered := &FilteredPage{
		ReportedTotal: page.Total,
		Results:       []CRMRecord{},
	}

	for _, record := range page.Results {
		if IsSyntheticDeal(record.DisplayName()) {
			continue
		}
		filtered.Results = append(filtered.Results, record)
	}

	filtered.Count = len(filtered.Results)
	return filtered
}
