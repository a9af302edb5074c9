package models

import "time"

// Analytic tracks creation time and mutation count for a resource. It is keyed by the
// resource identifier and looked up by reference, never embedded in the resource.
type Analytic struct {
	ResourceID   string    `gorm:"type:varchar(36);primarykey" json:"resource_id"`
	CreatedOn    time.Time `gorm:"not null" json:"created_on"`
	LastUpdate   time.Time `gorm:"not null" json:"last_update"`
	UpdatesCount int       `gorm:"not null;default:0" json:"updates_count"`
}

// Representation projects the analytic into its wire form.
func (a *Analytic) Representation() map[string]any {
	return map[string]any{
		"resourceId":   a.ResourceID,
		"createdOn":    a.CreatedOn,
		"lastUpdate":   a.LastUpdate,
		"updatesCount": a.UpdatesCount,
	}
}
