package services

import (
	"log"

	"github.com/cpopa/taskdesk-api/internal/models"
	"github.com/cpopa/taskdesk-api/internal/notify"
	"github.com/cpopa/taskdesk-api/internal/repository"
)

// SystemActorName labels log entries whose actor could not be resolved.
const SystemActorName = "System"

// Dispatcher fans out the side effects of a committed mutation: durable
// activity-log rows and ephemeral realtime events. It runs after the
// transaction and never fails the calling operation; every error here is
// logged and swallowed.
type Dispatcher struct {
	logRepo  repository.LogRepository
	userRepo repository.UserRepository
	sink     notify.Sink
}

// NewDispatcher creates a Dispatcher. sink must not be nil; pass
// notify.NoopSink when no realtime transport is wired.
func NewDispatcher(logRepo repository.LogRepository, userRepo repository.UserRepository, sink notify.Sink) *Dispatcher {
	return &Dispatcher{
		logRepo:  logRepo,
		userRepo: userRepo,
		sink:     sink,
	}
}

// ActorName resolves a user's display name, falling back to the system
// sentinel when the user cannot be loaded.
func (d *Dispatcher) ActorName(userID uint64) string {
	user, err := d.userRepo.FindByID(userID)
	if err != nil {
		return SystemActorName
	}
	return user.Name
}

// LogToUsers writes one activity-log row per addressee.
func (d *Dispatcher) LogToUsers(userIDs []uint64, actorName, action string) {
	if len(userIDs) == 0 {
		return
	}

	logs := make([]models.ActivityLog, len(userIDs))
	for i, userID := range userIDs {
		logs[i] = models.ActivityLog{
			UserID:    userID,
			ActorName: actorName,
			Action:    action,
		}
	}

	if err := d.logRepo.CreateBatch(logs); err != nil {
		log.Printf("failed to write activity logs: %v", err)
	}
}

// NotifyUser pushes an event to a single user.
func (d *Dispatcher) NotifyUser(userID uint64, event notify.Event) {
	d.sink.SendToUser(userID, event)
}

// NotifyRoom pushes an event to a room.
func (d *Dispatcher) NotifyRoom(room string, event notify.Event) {
	d.sink.SendToRoom(room, event)
}
