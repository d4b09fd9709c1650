package notification

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeGoalReached   NotificationType = "goal_reached"
	TypeWaterReminder NotificationType = "water_reminder"
)

type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Body      string           `json:"body" db:"body"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type DeviceToken struct {
	Token    string `json:"token" db:"token"`
	Platform string `json:"platform" db:"platform"`
}

type Preferences struct {
	GoalAlerts     bool `json:"goal_alerts" db:"goal_alerts"`
	WaterReminders bool `json:"water_reminders" db:"water_reminders"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}
