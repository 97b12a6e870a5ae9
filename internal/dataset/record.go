package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Field names a Record attribute. The string value is the canonical column
// name used by filters, group-by keys and query plans.
type Field string

const (
	FieldDate             Field = "date"
	FieldReference        Field = "reference"
	FieldNotifyingCountry Field = "notifying_country"
	FieldOriginCountry    Field = "origin_country"
	FieldProduct          Field = "product"
	FieldProductCategory  Field = "product_category"
	FieldHazardSubstance  Field = "hazard_substance"
	FieldHazardCategory   Field = "hazard_category"
	FieldProdCat          Field = "prodcat"
	FieldGroupProd        Field = "groupprod"
	FieldHazCat           Field = "hazcat"
	FieldGroupHaz         Field = "grouphaz"
)

// Derived column headers written by enrichment.
const (
	ColProdCat   = "PRODCAT"
	ColGroupProd = "GROUPPROD"
	ColHazCat    = "HAZCAT"
	ColGroupHaz  = "GROUPHAZ"
)

// Fields lists every field in display order.
var Fields = []Field{
	FieldDate, FieldReference, FieldNotifyingCountry, FieldOriginCountry,
	FieldProduct, FieldProductCategory, FieldHazardSubstance, FieldHazardCategory,
	FieldProdCat, FieldGroupProd, FieldHazCat, FieldGroupHaz,
}

// aliases are matched against normalized column names, first hit wins.
var aliases = map[Field][]string{
	FieldDate:             {"date_of_case", "date", "notification_date", "validation_date"},
	FieldReference:        {"reference", "notification_reference", "ref"},
	FieldNotifyingCountry: {"notification_from", "notifying_country", "notifying_member"},
	FieldOriginCountry:    {"country_origin", "origin_country", "origin", "country_of_origin"},
	FieldProduct:          {"product", "subject", "product_name"},
	FieldProductCategory:  {"product_category", "category"},
	FieldHazardSubstance:  {"hazard_substance", "hazards", "hazard"},
	FieldHazardCategory:   {"hazard_category"},
	FieldProdCat:          {"prodcat"},
	FieldGroupProd:        {"groupprod"},
	FieldHazCat:           {"hazcat"},
	FieldGroupHaz:         {"grouphaz"},
}

// ParseField accepts a canonical name or any known column alias.
func ParseField(s string) (Field, error) {
	n := NormalizeColumnName(s)
	for _, f := range Fields {
		if string(f) == n {
			return f, nil
		}
	}
	for _, f := range Fields {
		for _, a := range aliases[f] {
			if a == n {
				return f, nil
			}
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// FieldIndex resolves a field to a column index using its aliases, or -1.
func (t *Table) FieldIndex(f Field) int {
	norm := make([]string, len(t.Header))
	for i, h := range t.Header {
		norm[i] = NormalizeColumnName(h)
	}
	for _, a := range aliases[f] {
		for i, h := range norm {
			if h == a {
				return i
			}
		}
	}
	return -1
}

// Record is one normalized notification.
type Record struct {
	Date             time.Time `json:"date,omitempty"`
	DateRaw          string    `json:"date_raw,omitempty"`
	HasDate          bool      `json:"-"`
	Reference        string    `json:"reference,omitempty"`
	NotifyingCountry string    `json:"notifying_country"`
	OriginCountry    string    `json:"origin_country"`
	Product          string    `json:"product,omitempty"`
	ProductCategory  string    `json:"product_category"`
	HazardSubstance  string    `json:"hazard_substance"`
	HazardCategory   string    `json:"hazard_category"`
	ProdCat          string    `json:"prodcat"`
	GroupProd        string    `json:"groupprod"`
	HazCat           string    `json:"hazcat"`
	GroupHaz         string    `json:"grouphaz"`
}

// Get returns the string value of a field.
func (r *Record) Get(f Field) string {
	switch f {
	case FieldDate:
		if r.HasDate {
			return r.Date.Format("2006-01-02")
		}
		return r.DateRaw
	case FieldReference:
		return r.Reference
	case FieldNotifyingCountry:
		return r.NotifyingCountry
	case FieldOriginCountry:
		return r.OriginCountry
	case FieldProduct:
		return r.Product
	case FieldProductCategory:
		return r.ProductCategory
	case FieldHazardSubstance:
		return r.HazardSubstance
	case FieldHazardCategory:
		return r.HazardCategory
	case FieldProdCat:
		return r.ProdCat
	case FieldGroupProd:
		return r.GroupProd
	case FieldHazCat:
		return r.HazCat
	case FieldGroupHaz:
		return r.GroupHaz
	}
	return ""
}

// RecordsTable renders records back into a table with canonical headers.
func RecordsTable(name string, recs []Record) *Table {
	header := make([]string, len(Fields))
	for i, f := range Fields {
		header[i] = string(f)
	}
	t := &Table{Name: name, Header: header, Rows: make([][]string, 0, len(recs))}
	for i := range recs {
		row := make([]string, len(Fields))
		for j, f := range Fields {
			row[j] = strings.TrimSpace(recs[i].Get(f))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
