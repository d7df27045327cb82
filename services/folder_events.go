package services

import (
	"sync"

	"course-folder-api/models"
)

// FolderEventType classifies what happened to a folder.
type FolderEventType string

const (
	EventStatusChanged  FolderEventType = "status_changed"
	EventFeedbackSaved  FolderEventType = "feedback_saved"
	EventAuditAssigned  FolderEventType = "audit_assigned"
	EventReportReceived FolderEventType = "report_received"
)

// FolderEvent is published after a folder mutation commits. Observers see
// the folder as persisted, so they must not write back through it.
type FolderEvent struct {
	Type      FolderEventType
	Folder    models.Folder
	ActorID   int
	OldStatus models.FolderStatus
	NewStatus models.FolderStatus
	Action    FolderAction
	Notes     string
}

// FolderObserver reacts to committed folder events.
type FolderObserver func(FolderEvent)

var folderEventHub = struct {
	mu        sync.RWMutex
	observers []FolderObserver
}{}

// SubscribeFolderEvents registers an observer. Call during startup;
// there is no unsubscribe.
func SubscribeFolderEvents(obs FolderObserver) {
	if obs == nil {
		return
	}
	folderEventHub.mu.Lock()
	folderEventHub.observers = append(folderEventHub.observers, obs)
	folderEventHub.mu.Unlock()
}

// PublishFolderEvent delivers the event to every observer in registration
// order. Delivery is synchronous; observers doing slow work (mail) spawn
// their own goroutines.
func PublishFolderEvent(ev FolderEvent) {
	folderEventHub.mu.RLock()
	observers := make([]FolderObserver, len(folderEventHub.observers))
	copy(observers, folderEventHub.observers)
	folderEventHub.mu.RUnlock()

	for _, obs := range observers {
		obs(ev)
	}
}
