package enums

import "fmt"

// NotificationType identifies what produced an in-app notification.
type NotificationType string

const (
	NotificationTypeFundingReceived  NotificationType = "funding_received"
	NotificationTypeFundingComplete  NotificationType = "funding_complete"
	NotificationTypeFollowerReceived NotificationType = "follower_received"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeFundingReceived,
	NotificationTypeFundingComplete,
	NotificationTypeFollowerReceived,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
