package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 分頁與排序的部署上限／預設值
const (
	DefaultPage   = 1
	DefaultLimit  = 20
	MaxLimit      = 100
	DefaultSortBy = "car_id"
)

// CarFilters 車輛查詢條件；價格用指標區分「未提供」與「0 元」
type CarFilters struct {
	Make         string           `form:"make"`
	Brand        string           `form:"brand"`
	Model        string           `form:"model"`
	FuelType     string           `form:"fuel_type"`
	Transmission string           `form:"transmission"`
	BodyStyle    string           `form:"body_style"`
	YearRange    string           `form:"year_range"`
	MinPrice     *decimal.Decimal `form:"min_price"`
	MaxPrice     *decimal.Decimal `form:"max_price"`
}

// FilterClause 正規化後的單一查詢條件
type FilterClause struct {
	Column string
	Op     string // contains / eq / gte / lte
	Value  interface{}
}

// CarQuery 編譯後的查詢描述：條件、排序與分頁
type CarQuery struct {
	Clauses    []FilterClause
	SearchTerm string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
	Offset     int
}

// 允許的排序欄位白名單，避免把任意字串塞進 ORDER BY
var allowedSortColumns = map[string]bool{
	"car_id":                  true,
	"make":                    true,
	"brand":                   true,
	"model":                   true,
	"model_year_range":        true,
	"monthly_fee_without_tax": true,
}

// CompileCarQuery 將條件包編譯成正規化查詢描述；純函式，同輸入必得同輸出
func CompileCarQuery(filters CarFilters, sortBy string, sortOrder string, page int, limit int) CarQuery {
	clauses := make([]FilterClause, 0, 9)

	if filters.Make != "" {
		clauses = append(clauses, FilterClause{Column: "make", Op: "contains", Value: filters.Make})
	}
	if filters.Brand != "" {
		clauses = append(clauses, FilterClause{Column: "brand", Op: "contains", Value: filters.Brand})
	}
	if filters.Model != "" {
		clauses = append(clauses, FilterClause{Column: "model", Op: "contains", Value: filters.Model})
	}
	if filters.FuelType != "" {
		clauses = append(clauses, FilterClause{Column: "fuel_type", Op: "eq", Value: filters.FuelType})
	}
	if filters.Transmission != "" {
		clauses = append(clauses, FilterClause{Column: "transmission", Op: "eq", Value: filters.Transmission})
	}
	if filters.BodyStyle != "" {
		clauses = append(clauses, FilterClause{Column: "body_style", Op: "eq", Value: filters.BodyStyle})
	}
	if filters.YearRange != "" {
		clauses = append(clauses, FilterClause{Column: "model_year_range", Op: "eq", Value: filters.YearRange})
	}
	// min_price 為 0 也是有效條件，用指標判斷存在與否
	if filters.MinPrice != nil {
		clauses = append(clauses, FilterClause{Column: "monthly_fee_without_tax", Op: "gte", Value: *filters.MinPrice})
	}
	if filters.MaxPrice != nil {
		clauses = append(clauses, FilterClause{Column: "monthly_fee_without_tax", Op: "lte", Value: *filters.MaxPrice})
	}

	if !allowedSortColumns[sortBy] {
		sortBy = DefaultSortBy
	}
	if sortOrder != "desc" {
		sortOrder = "asc"
	}
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return CarQuery{
		Clauses:   clauses,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
}

// CompileCarSearch 關鍵字搜尋：make/brand/model/vehicle/type 任一欄位符合即可
func CompileCarSearch(term string, page int, limit int) CarQuery {
	query := CompileCarQuery(CarFilters{}, DefaultSortBy, "asc", page, limit)
	query.SearchTerm = term
	return query
}

// Apply 把查詢描述轉成 GORM 條件（不含排序與分頁，供計數共用）
func (q CarQuery) Apply(db *gorm.DB) *gorm.DB {
	for _, clause := range q.Clauses {
		switch clause.Op {
		case "contains":
			db = db.Where(clause.Column+" ILIKE ?", "%"+clause.Value.(string)+"%")
		case "eq":
			db = db.Where(clause.Column+" = ?", clause.Value)
		case "gte":
			db = db.Where(clause.Column+" >= ?", clause.Value)
		case "lte":
			db = db.Where(clause.Column+" <= ?", clause.Value)
		}
	}

	if q.SearchTerm != "" {
		pattern := "%" + q.SearchTerm + "%"
		db = db.Where(
			"make ILIKE ? OR brand ILIKE ? OR model ILIKE ? OR vehicle ILIKE ? OR type ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	return db
}

// ApplyWithPaging 加上排序與分頁，供實際撈取列表使用
func (q CarQuery) ApplyWithPaging(db *gorm.DB) *gorm.DB {
	return q.Apply(db).
		Order(q.SortBy + " " + q.SortOrder).
		Offset(q.Offset).
		Limit(q.Limit)
}
