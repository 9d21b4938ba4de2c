package lesson

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		lesson  Lesson
		wantErr string
	}{
		{
			name:    "missing title",
			lesson:  Lesson{Kind: KindHTML, Content: "<p>hi</p>"},
			wantErr: "title",
		},
		{
			name:    "unknown kind",
			lesson:  Lesson{Title: "x", Kind: Kind("PodcastLesson")},
			wantErr: "PodcastLesson",
		},
		{
			name:    "video with neither url nor file",
			lesson:  Lesson{Title: "intro", Kind: KindVideo},
			wantErr: "video_url or source_file",
		},
		{
			name: "video with both url and pending file",
			lesson: Lesson{
				Title:      "intro",
				Kind:       KindVideo,
				VideoURL:   "https://cdn.example.com/v.mp4",
				SourceFile: &FilePart{Name: "v.mp4", Size: 10},
			},
			wantErr: "video_url",
		},
		{
			name: "video file over cap",
			lesson: Lesson{
				Title:      "intro",
				Kind:       KindVideo,
				SourceFile: &FilePart{Name: "v.mp4", Size: MaxVideoSize + 1},
			},
			wantErr: "limit is",
		},
		{
			name:   "video with url only",
			lesson: Lesson{Title: "intro", Kind: KindVideo, VideoURL: "https://cdn.example.com/v.mp4"},
		},
		{
			name:   "video already stored remotely",
			lesson: Lesson{Title: "intro", Kind: KindVideo, SourceFileURL: "/uploads/videos/a.mp4"},
		},
		{
			name:    "document without file",
			lesson:  Lesson{Title: "syllabus", Kind: KindDocument},
			wantErr: "file",
		},
		{
			name: "document over cap",
			lesson: Lesson{
				Title: "syllabus",
				Kind:  KindDocument,
				File:  &FilePart{Name: "s.pdf", Size: MaxDocumentSize + 1},
			},
			wantErr: "limit is",
		},
		{
			name:    "live without meeting link",
			lesson:  Lesson{Title: "q&a", Kind: KindLive, StartTime: start, DurationMinutes: 60},
			wantErr: "meeting_link",
		},
		{
			name: "live complete",
			lesson: Lesson{
				Title: "q&a", Kind: KindLive,
				StartTime: start, MeetingLink: "https://meet.example.com/x", DurationMinutes: 60,
			},
		},
		{
			name:    "quiz passing score over 100",
			lesson:  Lesson{Title: "final", Kind: KindQuiz, DurationMinutes: 30, PassingScore: 105},
			wantErr: "passing_score",
		},
		{
			name:   "quiz complete",
			lesson: Lesson{Title: "final", Kind: KindQuiz, DurationMinutes: 30, PassingScore: 70},
		},
		{
			name:    "assignment without due date",
			lesson:  Lesson{Title: "essay", Kind: KindAssignment, MaxScore: 100},
			wantErr: "due_date",
		},
		{
			name:   "assignment complete",
			lesson: Lesson{Title: "essay", Kind: KindAssignment, DueDate: due, MaxScore: 100},
		},
		{
			name:    "html without content",
			lesson:  Lesson{Title: "notes", Kind: KindHTML},
			wantErr: "content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lesson.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestVideoExclusivity(t *testing.T) {
	l := Lesson{Title: "intro", Kind: KindVideo}

	l.SetSourceFile(&FilePart{Name: "v.mp4", Size: 1024, Reader: strings.NewReader("data")})
	if l.VideoURL != "" {
		t.Fatalf("SetSourceFile left VideoURL = %q", l.VideoURL)
	}

	l.SetVideoURL("https://cdn.example.com/v.mp4")
	if l.SourceFile != nil {
		t.Fatal("SetVideoURL left a pending source file")
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() = %v after SetVideoURL", err)
	}

	// A lesson loaded from the server carries the stored reference instead
	// of a pending upload; switching to a link must drop that too.
	stored := Lesson{
		Title: "intro", Kind: KindVideo,
		SourceFileURL: "/uploads/videos/v.mp4", ProcessingStatus: "COMPLETED",
	}
	stored.SetVideoURL("https://cdn.example.com/v2.mp4")
	if stored.SourceFileURL != "" {
		t.Fatalf("SetVideoURL left SourceFileURL = %q", stored.SourceFileURL)
	}
	if stored.ProcessingStatus != "" {
		t.Fatalf("SetVideoURL left ProcessingStatus = %q", stored.ProcessingStatus)
	}
}

func TestEncodeForm(t *testing.T) {
	t.Run("always carries the discriminator", func(t *testing.T) {
		l := Lesson{Title: "notes", Kind: KindHTML, Content: "<p>hi</p>", ModuleID: 7, Order: 2}
		fields, files, err := l.EncodeForm()
		if err != nil {
			t.Fatalf("EncodeForm() = %v", err)
		}
		assert.Equal(t, "HTMLLesson", fields["resourcetype"])
		assert.Equal(t, "notes", fields["title"])
		assert.Equal(t, "7", fields["module"])
		assert.Equal(t, "2", fields["order"])
		assert.Empty(t, files)
	})

	t.Run("video upload becomes a file part", func(t *testing.T) {
		l := Lesson{Title: "intro", Kind: KindVideo}
		l.SetSourceFile(&FilePart{Name: "v.mp4", Size: 4, Reader: strings.NewReader("data")})

		fields, files, err := l.EncodeForm()
		if err != nil {
			t.Fatalf("EncodeForm() = %v", err)
		}
		if _, ok := fields["video_url"]; ok {
			t.Error("EncodeForm() emitted video_url for a file upload")
		}
		if len(files) != 1 || files[0].Field != "source_file" {
			t.Fatalf("EncodeForm() files = %+v, want one source_file part", files)
		}
	})

	t.Run("invalid lesson is rejected before encoding", func(t *testing.T) {
		l := Lesson{Title: "intro", Kind: KindVideo}
		if _, _, err := l.EncodeForm(); err == nil {
			t.Fatal("EncodeForm() accepted an invalid lesson")
		}
	})

	t.Run("live fields are formatted", func(t *testing.T) {
		start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
		l := Lesson{
			Title: "q&a", Kind: KindLive,
			StartTime: start, MeetingLink: "https://meet.example.com/x", DurationMinutes: 45,
		}
		fields, _, err := l.EncodeForm()
		if err != nil {
			t.Fatalf("EncodeForm() = %v", err)
		}
		assert.Equal(t, "2026-09-01T18:00:00Z", fields["start_time"])
		assert.Equal(t, "45", fields["duration_minutes"])
	})
}
