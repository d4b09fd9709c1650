package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"nutriDayAPI/internal/types/notification"
)

// PushProvider is the delivery backend (FCM in production).
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]string) error
}

type NotificationService struct {
	db   *pgxpool.Pool
	push PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.push = p
}

func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error {
	if req.Token == "" {
		return fmt.Errorf("%w: device token is required", ErrValidation)
	}

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	_, err = s.db.Exec(ctx, `
	INSERT INTO device_tokens (user_id, token, platform, created_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (token) DO UPDATE SET user_id = $1, platform = $3
	`, userID, req.Token, req.Platform)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	return nil
}

func (s *NotificationService) GetNotifications(ctx context.Context, clerkID string) ([]*notification.Notification, error) {
	query := `
	SELECT n.id, n.user_id, n.type, n.title, n.body, n.is_read, n.created_at
	FROM notifications n
	INNER JOIN users u ON u.id = n.user_id
	WHERE u.clerk_id = $1
	ORDER BY n.created_at DESC
	LIMIT 50
	`

	rows, err := s.db.Query(ctx, query, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	var items []*notification.Notification
	for rows.Next() {
		n := &notification.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, n)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	if items == nil {
		items = []*notification.Notification{}
	}

	return items, nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, clerkID string) error {
	_, err := s.db.Exec(ctx, `
	UPDATE notifications
	SET is_read = true
	WHERE user_id = (SELECT id FROM users WHERE clerk_id = $1)
	`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) GetPreferences(ctx context.Context, clerkID string) (*notification.Preferences, error) {
	query := `
	SELECT COALESCE(p.goal_alerts, true), COALESCE(p.water_reminders, true)
	FROM users u
	LEFT JOIN notification_preferences p ON p.user_id = u.id
	WHERE u.clerk_id = $1
	`

	prefs := &notification.Preferences{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(&prefs.GoalAlerts, &prefs.WaterReminders)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	return prefs, nil
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, clerkID string, prefs *notification.Preferences) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}

	_, err = s.db.Exec(ctx, `
	INSERT INTO notification_preferences (user_id, goal_alerts, water_reminders)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id) DO UPDATE SET goal_alerts = $2, water_reminders = $3
	`, userID, prefs.GoalAlerts, prefs.WaterReminders)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	return nil
}

// NotifyGoalReached records the notification and pushes it to the user's
// devices. At most one notification of a type is stored per day so
// repeated recomputes do not spam.
func (s *NotificationService) NotifyGoalReached(ctx context.Context, userID uuid.UUID, title, body string) {
	var alreadySent bool
	err := s.db.QueryRow(ctx, `
	SELECT EXISTS(
		SELECT 1 FROM notifications
		WHERE user_id = $1 AND title = $2 AND created_at::date = CURRENT_DATE
	)`, userID, title).Scan(&alreadySent)
	if err != nil || alreadySent {
		return
	}

	var goalAlerts bool
	err = s.db.QueryRow(ctx, `
	SELECT COALESCE(p.goal_alerts, true)
	FROM users u
	LEFT JOIN notification_preferences p ON p.user_id = u.id
	WHERE u.id = $1
	`, userID).Scan(&goalAlerts)
	if err != nil || !goalAlerts {
		return
	}

	_, err = s.db.Exec(ctx, `
	INSERT INTO notifications (id, user_id, type, title, body, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, false, $6)
	`, uuid.New(), userID, notification.TypeGoalReached, title, body, time.Now())
	if err != nil {
		log.Printf("NotifyGoalReached: failed to store notification: %v", err)
		return
	}

	if s.push == nil {
		return
	}

	tokens, err := s.deviceTokens(ctx, userID)
	if err != nil {
		log.Printf("NotifyGoalReached: failed to load device tokens: %v", err)
		return
	}

	if err := s.push.SendPush(ctx, tokens, title, body, map[string]string{"type": string(notification.TypeGoalReached)}); err != nil {
		log.Printf("NotifyGoalReached: push failed: %v", err)
	}
}

func (s *NotificationService) deviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `SELECT token, platform FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
