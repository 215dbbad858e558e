package models

// SystemConfigID is the fixed primary key of the configuration row.
const SystemConfigID uint = 1

// SystemConfig holds office-wide display settings. Exactly one row is expected;
// the services layer enforces it since the table itself allows more.
type SystemConfig struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	OfficeName    string `gorm:"size:200;not null" json:"office_name"`
	OfficeAddress string `gorm:"type:text;not null" json:"office_address"`
	OfficePhone   string `gorm:"size:20;not null" json:"office_phone"`
	OfficeEmail   string `gorm:"size:254;not null" json:"office_email"`
	Currency      string `gorm:"size:10;not null" json:"currency"`
	DateFormat    string `gorm:"size:20;not null" json:"date_format"`
}

// TableName keeps the singular table name used by the SQL migrations.
func (SystemConfig) TableName() string { return "system_config" }

// DefaultSystemConfig returns the row created on first access.
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		ID:            SystemConfigID,
		OfficeName:    "OFICONT - Oficina Contable",
		OfficeAddress: "Guatemala",
		Currency:      "Q",
		DateFormat:    "DD/MM/YYYY",
	}
}
