package Models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEntry journals one console action that reached the REST service.
type AuditEntry struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	SessionID string         `json:"session_id" gorm:"size:64;index"`
	User      string         `json:"user" gorm:"size:255"`
	Resource  string         `json:"resource" gorm:"size:64;index"`
	Action    string         `json:"action" gorm:"size:32"`
	RecordID  string         `json:"record_id" gorm:"size:64"`
	Outcome   string         `json:"outcome" gorm:"size:16"`
	Message   string         `json:"message" gorm:"type:text"`
	Details   datatypes.JSON `json:"details"`
}

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditFilter narrows the activity listing.
type AuditFilter struct {
	Resource string
	From     time.Time
	To       time.Time
}

// Journal persists audit entries. A nil *Journal discards everything so tests
// and tools can run without a database.
type Journal struct {
	DB *gorm.DB
}

func NewJournal(db *gorm.DB) *Journal {
	return &Journal{DB: db}
}

// Record stores the entry, encoding details as JSON.
func (j *Journal) Record(entry AuditEntry, details any) error {
	if j == nil || j.DB == nil {
		return nil
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return err
		}
		entry.Details = datatypes.JSON(raw)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return j.DB.Create(&entry).Error
}

// List returns entries newest first.
func (j *Journal) List(filter AuditFilter) ([]AuditEntry, error) {
	var entries []AuditEntry
	if j == nil || j.DB == nil {
		return entries, nil
	}
	query := j.DB.Model(&AuditEntry{})
	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}
	err := query.Order("created_at desc").Order("id desc").Find(&entries).Error
	return entries, err
}
