package model

import "time"

const (
	// MinYear is the oldest model year accepted for a car record.
	MinYear = 1900
)

// MaxYear returns the newest acceptable model year (next year's models
// are announced ahead of time).
func MaxYear() int {
	return time.Now().Year() + 1
}

// CarRecord is the persisted unit of data representing one vehicle.
// Brand, model and year are strongly typed; everything else the
// generator decides to populate lands in Attributes.
type CarRecord struct {
	ID         string         `json:"id,omitempty"`
	Brand      string         `json:"brand"`
	Model      string         `json:"model"`
	Year       int            `json:"year"`
	Attributes map[string]any `json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"created_at,omitempty"`
}

// Attr returns the named optional attribute, nil when absent.
func (c CarRecord) Attr(name string) any {
	if c.Attributes == nil {
		return nil
	}
	return c.Attributes[name]
}
