package models

import "time"

// NotificationType classifies a toast.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

// Icon returns the icon name shown next to a toast of this type.
func (t NotificationType) Icon() string {
	switch t {
	case NotificationSuccess:
		return "heroicons:check-circle"
	case NotificationError:
		return "heroicons:exclamation-circle"
	case NotificationInfo:
		return "heroicons:information-circle"
	case NotificationWarning:
		return "heroicons:exclamation-triangle"
	default:
		return ""
	}
}

// Notification is a transient, auto-dismissing user-visible message.
type Notification struct {
	ID       string
	Type     NotificationType
	Title    string
	Message  string
	Duration time.Duration
	Icon     string
}
