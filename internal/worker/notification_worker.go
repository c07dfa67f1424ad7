package worker

import (
	"github.com/spec-kit/grievance-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the event bus.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
