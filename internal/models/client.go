package models

import "time"

// ClientType classifies who the office works for.
type ClientType string

const (
	ClientIndividual   ClientType = "individual"
	ClientCompany      ClientType = "empresa"
	ClientOrganization ClientType = "organizacion"
)

// ClientTypes lists the accepted client types in display order.
var ClientTypes = []ClientType{ClientIndividual, ClientCompany, ClientOrganization}

// Client is a person, company or organization served by the office.
// TaxID (the NIT) is unique across all clients.
type Client struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:200;not null;index" json:"name"`
	Type         ClientType `gorm:"size:20;not null" json:"type"`
	TaxID        string     `gorm:"size:20;not null;uniqueIndex" json:"tax_id"`
	Address      string     `gorm:"type:text;not null" json:"address"`
	Phone        string     `gorm:"size:20;not null" json:"phone"`
	Email        string     `gorm:"size:254;not null" json:"email"`
	RegisteredAt time.Time  `gorm:"autoCreateTime;not null;index" json:"registered_at"`
	Active       bool       `gorm:"not null;index" json:"active"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (c Client) String() string { return c.Name }
