package course

import "time"

// Video processing states for uploaded video lessons.
const (
	VideoProcessing = "PROCESSING"
	VideoCompleted  = "COMPLETED"
	VideoFailed     = "FAILED"
)

// Lesson stores all six lesson shapes in one table; Resourcetype picks which
// columns are meaningful. The json field names are the wire contract the
// authoring client depends on.
type Lesson struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	ModuleID     uint   `gorm:"index;not null" json:"module_id"`
	Title        string `json:"title"`
	OrderIndex   int    `gorm:"default:0" json:"order"` // Lesson position in module, 1..N
	Resourcetype string `gorm:"index;not null" json:"resourcetype"`

	// VideoLesson: exactly one of VideoURL or SourceFileURL.
	VideoURL         string `json:"video_url,omitempty"`
	SourceFileURL    string `json:"source_file_url,omitempty"`
	ProcessingStatus string `json:"processing_status,omitempty"` // PROCESSING, COMPLETED, FAILED

	// DocumentLesson.
	FileURL string `json:"file_url,omitempty"`

	// LiveLesson.
	StartTime   *time.Time `json:"start_time,omitempty"`
	MeetingLink string     `json:"meeting_link,omitempty"`

	// LiveLesson and QuizLesson.
	DurationMinutes int `gorm:"default:0" json:"duration_minutes,omitempty"`

	// QuizLesson.
	PassingScore int `gorm:"default:0" json:"passing_score,omitempty"`

	// Assignment.
	DueDate  *time.Time `json:"due_date,omitempty"`
	MaxScore int        `gorm:"default:0" json:"max_score,omitempty"`

	// HTMLLesson.
	Content string `gorm:"type:text" json:"content,omitempty"`

	IsDeleted bool      `gorm:"default:false" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
