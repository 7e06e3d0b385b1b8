package matching

import (
	"strings"

	"emlak-crm-backend/internal/models"

	"gorm.io/gorm"
)

// FilterClause - bir talepten türetilen tek bir filtre koşulu.
// Hem GORM sorgusuna çevrilebilir hem de bellek içinde değerlendirilebilir;
// böylece filtre kümesi veritabanı olmadan test edilebilir.
type FilterClause interface {
	Apply(q *gorm.DB) *gorm.DB
	Matches(p *models.Property) bool
}

type EqualityFilter struct {
	Column string
	Value  string
}

func (f EqualityFilter) Apply(q *gorm.DB) *gorm.DB {
	return q.Where(f.Column+" = ?", f.Value)
}

func (f EqualityFilter) Matches(p *models.Property) bool {
	return stringColumn(p, f.Column) == f.Value
}

// SetMembershipFilter - virgülle ayrılmış bölge listeleri için.
// Değerlerden herhangi biri eşleşirse koşul sağlanır.
type SetMembershipFilter struct {
	Column string
	Values []string
}

func (f SetMembershipFilter) Apply(q *gorm.DB) *gorm.DB {
	return q.Where(f.Column+" IN ?", f.Values)
}

func (f SetMembershipFilter) Matches(p *models.Property) bool {
	got := stringColumn(p, f.Column)
	for _, v := range f.Values {
		if got == v {
			return true
		}
	}
	return false
}

// RangeFilter - alt/üst sınırlar dahildir.
type RangeFilter struct {
	Column string
	Min    *float64
	Max    *float64
}

func (f RangeFilter) Apply(q *gorm.DB) *gorm.DB {
	if f.Min != nil {
		q = q.Where(f.Column+" >= ?", *f.Min)
	}
	if f.Max != nil {
		q = q.Where(f.Column+" <= ?", *f.Max)
	}
	return q
}

func (f RangeFilter) Matches(p *models.Property) bool {
	v := numericColumn(p, f.Column)
	if f.Min != nil && v < *f.Min {
		return false
	}
	if f.Max != nil && v > *f.Max {
		return false
	}
	return true
}

func stringColumn(p *models.Property, column string) string {
	switch column {
	case "type":
		return string(p.Type)
	case "listing_type":
		return string(p.ListingType)
	case "city":
		return p.City
	case "district":
		return p.District
	case "neighborhood":
		return p.Neighborhood
	case "room_plan":
		return p.RoomPlan
	}
	return ""
}

func numericColumn(p *models.Property, column string) float64 {
	switch column {
	case "price":
		return p.Price
	case "gross_m2":
		return p.GrossM2
	}
	return 0
}

// BuildFilters bir talebin dolu alanlarından filtre listesini kurar.
// Tip ve ilan tipi her zaman zorunludur; konum ve aralık filtreleri
// sadece talepte doluysa eklenir.
//
// includeRooms: oda planı filtresi şu an sadece toplu sayım tarafında
// uygulanıyor, tekil eşleşme listesi oda planına bakmıyor. Hangisinin
// doğru davranış olduğu ürün tarafıyla netleşene kadar iki yol ayrık
// tutuluyor.
func BuildFilters(req *models.Request, includeRooms bool) []FilterClause {
	filters := []FilterClause{
		EqualityFilter{Column: "type", Value: string(req.Type)},
		EqualityFilter{Column: "listing_type", Value: string(req.ListingType)},
	}

	if req.City != "" {
		filters = append(filters, EqualityFilter{Column: "city", Value: req.City})
	}

	if districts := SplitCSV(req.District); len(districts) > 0 {
		filters = append(filters, SetMembershipFilter{Column: "district", Values: districts})
	}

	if neighborhoods := SplitCSV(req.Neighborhood); len(neighborhoods) > 0 {
		filters = append(filters, SetMembershipFilter{Column: "neighborhood", Values: neighborhoods})
	}

	if req.MinPrice != nil || req.MaxPrice != nil {
		filters = append(filters, RangeFilter{Column: "price", Min: req.MinPrice, Max: req.MaxPrice})
	}

	if req.MinSize != nil || req.MaxSize != nil {
		filters = append(filters, RangeFilter{Column: "gross_m2", Min: req.MinSize, Max: req.MaxSize})
	}

	if includeRooms && req.Rooms != nil && strings.TrimSpace(*req.Rooms) != "" {
		filters = append(filters, EqualityFilter{Column: "room_plan", Value: strings.TrimSpace(*req.Rooms)})
	}

	return filters
}

// SplitCSV virgülle ayrılmış listeyi parçalar, boşlukları kırpar,
// boş parçaları atar.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
