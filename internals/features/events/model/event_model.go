// file: internals/features/events/model/event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"weekreport_backend/internals/helpers/dbtime"
)

type EventStatus string

const (
	EventConfirmed   EventStatus = "CONFIRMED"
	EventUnconfirmed EventStatus = "UNCONFIRMED"
)

// EventModel is one entry of the working calendar (meeting, visit, ceremony).
type EventModel struct {
	EventID           uuid.UUID      `gorm:"type:uuid;primaryKey;column:event_id" json:"event_id"`
	EventDate         datatypes.Date `gorm:"not null;column:event_date;index:idx_events_date_time,priority:1" json:"event_date"`
	EventTime         *dbtime.Tod    `gorm:"type:varchar(8);column:event_time;index:idx_events_date_time,priority:2" json:"event_time"`
	EventLocation     *string        `gorm:"type:varchar(255);column:event_location" json:"event_location"`
	EventContent      string         `gorm:"type:text;not null;column:event_content" json:"event_content"`
	EventChair        *string        `gorm:"type:varchar(255);column:event_chair" json:"event_chair"`
	EventParticipants *string        `gorm:"type:text;column:event_participants" json:"event_participants"`
	EventNote         *string        `gorm:"type:text;column:event_note" json:"event_note"`
	EventStatus       EventStatus    `gorm:"type:varchar(20);not null;default:'UNCONFIRMED';column:event_status" json:"event_status"`
	EventIsEdited     bool           `gorm:"not null;default:false;column:event_is_edited" json:"event_is_edited"`

	EventCreatedAt time.Time `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
}

func (EventModel) TableName() string { return "events" }

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		m.EventID = uuid.New()
	}
	if m.EventStatus == "" {
		m.EventStatus = EventUnconfirmed
	}
	return nil
}
