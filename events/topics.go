package events

// Topic names the closed set of messages exchanged over the bus. String-typed
// so payload contracts stay machine-checkable at the call sites.
type Topic string

const (
	// TopicAll receives every emission with (topic, payload).
	TopicAll Topic = "*"

	TopicDraftCreated   Topic = "draft:created"
	TopicDraftLoaded    Topic = "draft:loaded"
	TopicDraftSaved     Topic = "draft:saved"
	TopicDraftDeleted   Topic = "draft:deleted"
	TopicDraftPublished Topic = "draft:published"

	TopicStepEntered Topic = "step:entered"
	TopicStepSaved   Topic = "step:saved"

	TopicUILoadingShow Topic = "ui:loading-show"
	TopicUILoadingHide Topic = "ui:loading-hide"
	TopicUIUnsaved     Topic = "ui:unsaved-changes"

	TopicStorageQuotaWarning  Topic = "storage:quota-warning"
	TopicStorageQuotaExceeded Topic = "storage:quota-exceeded"

	TopicWishlistChanged Topic = "wishlist:changed"
)

// DraftEvent is the payload on draft:* and step:* topics.
type DraftEvent struct {
	UserID      string `json:"user_id"`
	DraftID     string `json:"draft_id"`
	ItineraryID string `json:"itinerary_id,omitempty"`
	Step        int    `json:"step,omitempty"`
}

// QuotaEvent is the payload on storage:quota-* topics.
type QuotaEvent struct {
	Used      int64   `json:"used"`
	Allowance int64   `json:"allowance"`
	Ratio     float64 `json:"ratio"`
}

// LoadingEvent is the payload on ui:loading-show.
type LoadingEvent struct {
	Message string `json:"message"`
}
