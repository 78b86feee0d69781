package gateway

import (
	"log"

	"github.com/wander-list/api-go/events"
	"github.com/wander-list/api-go/models"
	"gorm.io/gorm"
)

// ActivityRecorder turns authoring bus events into activity_logs rows. A
// write failure is logged and swallowed: the log is a trail, not a gate.
type ActivityRecorder struct {
	DB *gorm.DB
}

func NewActivityRecorder(db *gorm.DB) *ActivityRecorder {
	return &ActivityRecorder{DB: db}
}

var recordedTopics = map[events.Topic]string{
	events.TopicDraftCreated:   "draft_created",
	events.TopicStepSaved:      "step_saved",
	events.TopicDraftPublished: "draft_published",
	events.TopicDraftDeleted:   "draft_deleted",
}

// Attach subscribes the recorder to a session bus and returns the combined
// unsubscribe.
func (r *ActivityRecorder) Attach(bus *events.Bus) func() {
	var offs []func()
	for topic, activity := range recordedTopics {
		activity := activity
		offs = append(offs, bus.On(topic, func(_ events.Topic, payload interface{}) {
			evt, ok := payload.(events.DraftEvent)
			if !ok {
				return
			}
			r.record(activity, evt)
		}))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

func (r *ActivityRecorder) record(activity string, evt events.DraftEvent) {
	row := models.ActivityLog{
		UserID:   evt.UserID,
		DraftID:  evt.DraftID,
		Activity: activity,
		Step:     evt.Step,
	}
	if evt.ItineraryID != "" {
		id := evt.ItineraryID
		row.ItineraryID = &id
	}
	if err := r.DB.Create(&row).Error; err != nil {
		log.Printf("activity log write failed (%s): %v", activity, err)
	}
}

// Recent lists a user's latest activity entries.
func (r *ActivityRecorder) Recent(userID string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []models.ActivityLog
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
