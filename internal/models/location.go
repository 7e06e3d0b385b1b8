package models

// İl/ilçe/mahalle hiyerarşisi, form seçenekleri için.
// Property ve Request üzerindeki konum alanları serbest metin olarak kalır;
// bu tablolar sadece lookup içindir.

type City struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;unique"`

	Districts []District
}

type District struct {
	ID     uint `gorm:"primaryKey"`
	CityID uint `gorm:"index;not null"`
	City   City
	Name   string `gorm:"size:100;not null"`

	Neighborhoods []Neighborhood
}

type Neighborhood struct {
	ID         uint `gorm:"primaryKey"`
	DistrictID uint `gorm:"index;not null"`
	District   District
	Name       string `gorm:"size:100;not null"`
}
