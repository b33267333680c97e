package model

// Country is resolved against the REST Countries registry
type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;uniqueIndex" json:"name"`
	Code string `gorm:"not null;uniqueIndex;type:varchar(2)" json:"code"` // ISO 3166-1 alpha-2
}
