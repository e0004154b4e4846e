package models

import "time"

type EventType string

const (
	EventMeeting EventType = "Reunião"
	EventHoliday EventType = "Feriado"
	EventDayOff  EventType = "Folga"
	EventGeneral EventType = "Geral"
)

// SystemCreator labels events whose author was deleted or never recorded.
const SystemCreator = "Sistema"

type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   *string   `json:"-"`
	CreatorName string    `json:"creatorName"`
	CreatedAt   time.Time `json:"createdAt"`
}
