package lesson

import (
	"io"
	"strconv"
	"time"
)

// Kind is the discriminator the content service uses to route a lesson
// payload to the right shape.
type Kind string

const (
	KindVideo      Kind = "VideoLesson"
	KindDocument   Kind = "DocumentLesson"
	KindLive       Kind = "LiveLesson"
	KindQuiz       Kind = "QuizLesson"
	KindAssignment Kind = "Assignment"
	KindHTML       Kind = "HTMLLesson"
)

// Upload size caps enforced before any network call is made.
const (
	MaxVideoSize    = 100 * 1024 * 1024 // 100MB
	MaxDocumentSize = 5 * 1024 * 1024   // 5MB
)

// Valid reports whether k is one of the six known lesson kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindVideo, KindDocument, KindLive, KindQuiz, KindAssignment, KindHTML:
		return true
	}
	return false
}

// FilePart is a binary field attached to a lesson payload. Reader is nil for
// lessons decoded from the server; it is only set for pending uploads.
type FilePart struct {
	Field  string
	Name   string
	Size   int64
	Reader io.Reader
}

// Lesson is a tagged union over Kind. Only the fields belonging to the active
// kind are meaningful; everything else stays at its zero value.
type Lesson struct {
	ID       uint   `json:"id"`
	ModuleID uint   `json:"module_id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Kind     Kind   `json:"resourcetype"`

	// VideoLesson. Exactly one of VideoURL or SourceFile may be set;
	// use SetVideoURL / SetSourceFile to keep the exclusivity invariant.
	VideoURL         string    `json:"video_url,omitempty"`
	SourceFile       *FilePart `json:"-"`
	SourceFileURL    string    `json:"source_file_url,omitempty"`
	ProcessingStatus string    `json:"processing_status,omitempty"`

	// DocumentLesson. File is a pending upload, FileURL an already stored one.
	File    *FilePart `json:"-"`
	FileURL string    `json:"file_url,omitempty"`

	// LiveLesson.
	StartTime   time.Time `json:"start_time,omitempty"`
	MeetingLink string    `json:"meeting_link,omitempty"`

	// LiveLesson and QuizLesson.
	DurationMinutes int `json:"duration_minutes,omitempty"`

	// QuizLesson.
	PassingScore int `json:"passing_score,omitempty"`

	// Assignment.
	DueDate  time.Time `json:"due_date,omitempty"`
	MaxScore int       `json:"max_score,omitempty"`

	// HTMLLesson.
	Content string `json:"content,omitempty"`
}

// SetVideoURL switches a video lesson to an external link and drops any
// pending or stored file source.
func (l *Lesson) SetVideoURL(url string) {
	l.VideoURL = url
	l.SourceFile = nil
	l.SourceFileURL = ""
	l.ProcessingStatus = ""
}

// SetSourceFile switches a video lesson to a file upload and clears the
// external link.
func (l *Lesson) SetSourceFile(f *FilePart) {
	l.SourceFile = f
	l.VideoURL = ""
}

// HasRemoteID reports whether the lesson has already been persisted.
func (l *Lesson) HasRemoteID() bool {
	return l.ID != 0
}

// Validate enforces the per-kind field contract. It never touches the
// network; a lesson that fails here must not be submitted.
func (l *Lesson) Validate() error {
	if l.Title == "" {
		return &MissingFieldError{Field: "title"}
	}
	if !l.Kind.Valid() {
		return &UnknownKindError{Kind: l.Kind}
	}

	switch l.Kind {
	case KindVideo:
		hasURL := l.VideoURL != ""
		hasFile := l.SourceFile != nil || l.SourceFileURL != ""
		if hasURL && l.SourceFile != nil {
			return &ConflictingFieldsError{Fields: []string{"video_url", "source_file"}}
		}
		if !hasURL && !hasFile {
			return &MissingFieldError{Field: "video_url or source_file"}
		}
		if l.SourceFile != nil && l.SourceFile.Size > MaxVideoSize {
			return &FileTooLargeError{Field: "source_file", Size: l.SourceFile.Size, Limit: MaxVideoSize}
		}
	case KindDocument:
		if l.File == nil && l.FileURL == "" {
			return &MissingFieldError{Field: "file"}
		}
		if l.File != nil && l.File.Size > MaxDocumentSize {
			return &FileTooLargeError{Field: "file", Size: l.File.Size, Limit: MaxDocumentSize}
		}
	case KindLive:
		if l.StartTime.IsZero() {
			return &MissingFieldError{Field: "start_time"}
		}
		if l.MeetingLink == "" {
			return &MissingFieldError{Field: "meeting_link"}
		}
		if l.DurationMinutes <= 0 {
			return &MissingFieldError{Field: "duration_minutes"}
		}
	case KindQuiz:
		if l.DurationMinutes <= 0 {
			return &MissingFieldError{Field: "duration_minutes"}
		}
		if l.PassingScore <= 0 || l.PassingScore > 100 {
			return &MissingFieldError{Field: "passing_score"}
		}
	case KindAssignment:
		if l.DueDate.IsZero() {
			return &MissingFieldError{Field: "due_date"}
		}
	case KindHTML:
		if l.Content == "" {
			return &MissingFieldError{Field: "content"}
		}
	}
	return nil
}

// EncodeForm converts the lesson into a multipart-capable payload: scalar
// fields plus binary file parts. The kind discriminator is always included so
// the content service can route the payload. The lesson is validated first.
func (l *Lesson) EncodeForm() (map[string]string, []FilePart, error) {
	if err := l.Validate(); err != nil {
		return nil, nil, err
	}

	fields := map[string]string{
		"resourcetype": string(l.Kind),
		"title":        l.Title,
	}
	if l.ModuleID != 0 {
		fields["module"] = strconv.FormatUint(uint64(l.ModuleID), 10)
	}
	if l.Order > 0 {
		fields["order"] = strconv.Itoa(l.Order)
	}

	var files []FilePart

	switch l.Kind {
	case KindVideo:
		if l.VideoURL != "" {
			fields["video_url"] = l.VideoURL
		} else if l.SourceFile != nil {
			files = append(files, FilePart{
				Field:  "source_file",
				Name:   l.SourceFile.Name,
				Size:   l.SourceFile.Size,
				Reader: l.SourceFile.Reader,
			})
		}
	case KindDocument:
		if l.File != nil {
			files = append(files, FilePart{
				Field:  "file",
				Name:   l.File.Name,
				Size:   l.File.Size,
				Reader: l.File.Reader,
			})
		}
	case KindLive:
		fields["start_time"] = l.StartTime.Format(time.RFC3339)
		fields["meeting_link"] = l.MeetingLink
		fields["duration_minutes"] = strconv.Itoa(l.DurationMinutes)
	case KindQuiz:
		fields["duration_minutes"] = strconv.Itoa(l.DurationMinutes)
		fields["passing_score"] = strconv.Itoa(l.PassingScore)
	case KindAssignment:
		fields["due_date"] = l.DueDate.Format(time.RFC3339)
		if l.MaxScore > 0 {
			fields["max_score"] = strconv.Itoa(l.MaxScore)
		}
	case KindHTML:
		fields["content"] = l.Content
	}

	return fields, files, nil
}
