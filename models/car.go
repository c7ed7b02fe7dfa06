package models

import "github.com/shopspring/decimal"

// Car 車輛主檔：彙整各合作網站的車輛資料，描述欄位皆為選填
type Car struct {
	CarID                 int              `json:"car_id" gorm:"primaryKey;autoIncrement;column:car_id"`
	Make                  string           `json:"make,omitempty" gorm:"type:varchar(100)"`
	Brand                 string           `json:"brand,omitempty" gorm:"type:varchar(100)"`
	Model                 string           `json:"model,omitempty" gorm:"type:varchar(100)"`
	Version               string           `json:"version,omitempty" gorm:"type:varchar(100)"`
	Color                 string           `json:"color,omitempty" gorm:"type:varchar(50)"`
	FuelType              string           `json:"fuel_type,omitempty" gorm:"type:varchar(50)"`
	Transmission          string           `json:"transmission,omitempty" gorm:"type:varchar(50)"`
	Doors                 string           `json:"doors,omitempty" gorm:"type:varchar(20)"`
	BodyStyle             string           `json:"body_style,omitempty" gorm:"type:varchar(50)"`
	TireType              string           `json:"tire_type,omitempty" gorm:"type:varchar(50)"`
	ModelYearRange        string           `json:"model_year_range,omitempty" gorm:"type:varchar(50)"`
	Vehicle               string           `json:"vehicle,omitempty" gorm:"type:varchar(100)"`
	Type                  string           `json:"type,omitempty" gorm:"type:varchar(100)"`
	MonthlyFeeWithoutTax  *decimal.Decimal `json:"monthly_fee_without_tax,omitempty" gorm:"type:numeric(10,2)"`
	MaximumHorsepower     *float64         `json:"maximum_horsepower,omitempty"`
	MaximumHorsepowerUnit string           `json:"maximum_horsepower_unit,omitempty" gorm:"type:varchar(20)"`
	MaximumSpeed          *float64         `json:"maximum_speed,omitempty"`
	MaximumSpeedUnit      string           `json:"maximum_speed_unit,omitempty" gorm:"type:varchar(20)"`
	FuelCapacity          *float64         `json:"fuel_capacity,omitempty"`
	FuelCapacityUnit      string           `json:"fuel_capacity_unit,omitempty" gorm:"type:varchar(20)"`
	EnergyLabel           string           `json:"energy_label,omitempty" gorm:"type:varchar(50)"`
	EnergyLabelURL        string           `json:"energy_label_url,omitempty" gorm:"type:varchar(500)"`
	EUEnergyLabelClass    string           `json:"eu_energy_label_class,omitempty" gorm:"column:eu_energy_label_class;type:varchar(10)"`

	Features       []CarFeature    `json:"-" gorm:"foreignKey:CarID;references:CarID"`
	Images         []CarImage      `json:"-" gorm:"foreignKey:CarID;references:CarID"`
	Websites       []Website       `json:"-" gorm:"foreignKey:CarID;references:CarID"`
	PricingOptions []PricingOption `json:"-" gorm:"foreignKey:CarID;references:CarID"`
}

func (Car) TableName() string {
	return "cars"
}

// CarFeature 車輛配備：以 (category, value) 描述單一配備
type CarFeature struct {
	FeatureID int    `json:"feature_id" gorm:"primaryKey;autoIncrement;column:feature_id"`
	CarID     int    `json:"car_id" gorm:"index;not null;column:car_id"`
	Category  string `json:"category,omitempty" gorm:"type:varchar(100)"`
	Value     string `json:"value,omitempty" gorm:"type:varchar(200)"`
}

func (CarFeature) TableName() string {
	return "car_features"
}

type CarImage struct {
	ImageID  int    `json:"image_id" gorm:"primaryKey;autoIncrement;column:image_id"`
	CarID    int    `json:"car_id" gorm:"index;not null;column:car_id"`
	ImageURL string `json:"image_url,omitempty" gorm:"type:varchar(500)"`
}

func (CarImage) TableName() string {
	return "car_images"
}

// Website 合作網站：刊登該車的出租平台
type Website struct {
	WebsiteID int    `json:"website_id" gorm:"primaryKey;autoIncrement;column:website_id"`
	CarID     int    `json:"car_id" gorm:"index;column:car_id"`
	Name      string `json:"name,omitempty" gorm:"type:varchar(100)"`
	URL       string `json:"url,omitempty" gorm:"type:varchar(500)"`
	MainURL   string `json:"main_url,omitempty" gorm:"type:varchar(500)"`
	LogoURL   string `json:"logo_url,omitempty" gorm:"type:varchar(500)"`
}

func (Website) TableName() string {
	return "websites"
}

// PricingOption 報價方案：單一網站對 (租期, 年里程) 的月費報價
// MonthlyFee 維持指標：缺少報價不能被當成 0 元
type PricingOption struct {
	PricingID            int              `json:"pricing_id" gorm:"primaryKey;autoIncrement;column:pricing_id"`
	CarID                int              `json:"car_id" gorm:"index;not null;column:car_id" binding:"omitempty,gt=0"`
	WebsiteID            int              `json:"website_id" gorm:"index;not null;column:website_id" binding:"required,gt=0"`
	DurationMonths       int              `json:"duration_months" gorm:"not null" binding:"required,gt=0"`
	AnnualKms            int              `json:"annual_kms" gorm:"not null" binding:"gte=0"`
	MonthlyFee           *decimal.Decimal `json:"monthly_fee,omitempty" gorm:"type:numeric(10,2)"`
	MonthlyFeeWithoutTax *decimal.Decimal `json:"monthly_fee_without_tax,omitempty" gorm:"type:numeric(10,2)"`
	TotalPayable         string           `json:"total_payable,omitempty" gorm:"type:varchar(200)"`
	ExcessKmRate         string           `json:"excess_km_rate,omitempty" gorm:"type:varchar(200)"`
	UnderuseKmRefund     string           `json:"underuse_km_refund,omitempty" gorm:"type:varchar(200)"`
}

func (PricingOption) TableName() string {
	return "pricing_options"
}

// CarDetailResponse 車輛完整資料（含配備、圖片、網站、報價）
type CarDetailResponse struct {
	Car
	Features       []CarFeature    `json:"features"`
	Images         []CarImage      `json:"images"`
	Websites       []Website       `json:"websites"`
	PricingOptions []PricingOption `json:"pricing_options"`
}

func (c *Car) ToDetailResponse() CarDetailResponse {
	features := c.Features
	if features == nil {
		features = []CarFeature{}
	}
	images := c.Images
	if images == nil {
		images = []CarImage{}
	}
	websites := c.Websites
	if websites == nil {
		websites = []Website{}
	}
	pricing := c.PricingOptions
	if pricing == nil {
		pricing = []PricingOption{}
	}

	return CarDetailResponse{
		Car:            *c,
		Features:       features,
		Images:         images,
		Websites:       websites,
		PricingOptions: pricing,
	}
}

// CarListItemResponse 列表項目：車輛欄位加上圖片
type CarListItemResponse struct {
	Car
	Images []CarImage `json:"images"`
}

func (c *Car) ToListItemResponse() CarListItemResponse {
	images := c.Images
	if images == nil {
		images = []CarImage{}
	}
	return CarListItemResponse{
		Car:    *c,
		Images: images,
	}
}
