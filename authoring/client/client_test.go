package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms/authoring/lesson"
)

func writeEnvelope(w http.ResponseWriter, code int, status bool, msg string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"message": msg,
		"data":    data,
	})
}

func TestCreateCourse(t *testing.T) {
	var gotAuth, gotTitle, gotCategory string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/courses" {
			t.Errorf("request = %s %s, want POST /api/v1/courses", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() = %v", err)
		}
		gotTitle = r.FormValue("title")
		gotCategory = r.FormValue("category")
		writeEnvelope(w, http.StatusCreated, true, "Course created successfully!", Course{ID: 12, Title: r.FormValue("title")})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok123")
	course, err := c.CreateCourse(context.Background(), CourseData{Title: "Go 101", CategoryID: 3})
	if err != nil {
		t.Fatalf("CreateCourse() = %v", err)
	}
	if course.ID != 12 {
		t.Errorf("course.ID = %d, want 12", course.ID)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotTitle != "Go 101" || gotCategory != "3" {
		t.Errorf("form = title %q category %q", gotTitle, gotCategory)
	}
}

func TestCreateModuleCarriesCourseID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/modules" {
			t.Errorf("path = %s, want /api/v1/modules", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["course"] != float64(12) {
			t.Errorf("course = %v, want 12", body["course"])
		}
		writeEnvelope(w, http.StatusCreated, true, "Module created successfully!", Module{ID: 30, CourseID: 12, Title: body["title"].(string)})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	mod, err := c.CreateModule(context.Background(), 12, ModuleData{Title: "1. Week", Order: 1})
	if err != nil {
		t.Fatalf("CreateModule() = %v", err)
	}
	if mod.ID != 30 {
		t.Errorf("mod.ID = %d, want 30", mod.ID)
	}
}

func TestCreateLessonMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() = %v", err)
		}
		if rt := r.FormValue("resourcetype"); rt != "VideoLesson" {
			t.Errorf("resourcetype = %q, want VideoLesson", rt)
		}
		if m := r.FormValue("module"); m != "30" {
			t.Errorf("module = %q, want 30", m)
		}
		f, hdr, err := r.FormFile("source_file")
		if err != nil {
			t.Fatalf("FormFile(source_file) = %v", err)
		}
		defer f.Close()
		if hdr.Filename != "v.mp4" {
			t.Errorf("upload name = %q, want v.mp4", hdr.Filename)
		}
		writeEnvelope(w, http.StatusCreated, true, "Lesson created successfully!", lesson.Lesson{
			ID: 70, ModuleID: 30, Title: "intro", Kind: lesson.KindVideo,
			SourceFileURL: "/uploads/videos/v.mp4", ProcessingStatus: "PROCESSING",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	var progressed bool
	c.OnUploadProgress = func(field string, sent, total int64) { progressed = true }

	l := &lesson.Lesson{Title: "intro", Kind: lesson.KindVideo}
	l.SetSourceFile(&lesson.FilePart{Name: "v.mp4", Size: 4, Reader: strings.NewReader("data")})

	saved, err := c.CreateLesson(context.Background(), 30, l)
	if err != nil {
		t.Fatalf("CreateLesson() = %v", err)
	}
	if saved.ID != 70 {
		t.Errorf("saved.ID = %d, want 70", saved.ID)
	}
	if saved.ProcessingStatus != "PROCESSING" {
		t.Errorf("ProcessingStatus = %q, want PROCESSING", saved.ProcessingStatus)
	}
	if !progressed {
		t.Error("upload progress callback never fired")
	}
}

func TestCreateLessonWithoutFileIsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data") {
			t.Errorf("Content-Type = %q, want multipart/form-data", ct)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() = %v", err)
		}
		if rt := r.FormValue("resourcetype"); rt != "HTMLLesson" {
			t.Errorf("resourcetype = %q, want HTMLLesson", rt)
		}
		writeEnvelope(w, http.StatusCreated, true, "Lesson created successfully!", lesson.Lesson{
			ID: 71, ModuleID: 30, Title: "notes", Kind: lesson.KindHTML, Content: "<p>hi</p>",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	l := &lesson.Lesson{Title: "notes", Kind: lesson.KindHTML, Content: "<p>hi</p>"}
	saved, err := c.CreateLesson(context.Background(), 30, l)
	if err != nil {
		t.Fatalf("CreateLesson() = %v", err)
	}
	if saved.ID != 71 {
		t.Errorf("saved.ID = %d, want 71", saved.ID)
	}
}

func TestCreateLessonRejectsInvalidLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid lesson reached the server")
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if _, err := c.CreateLesson(context.Background(), 30, &lesson.Lesson{Title: "x", Kind: lesson.KindVideo}); err == nil {
		t.Fatal("CreateLesson() accepted a video with no source")
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, false, "Validation failed!", map[string]string{
			"title": "Title is required!",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.CreateCourse(context.Background(), CourseData{Title: "Go"})
	if err == nil {
		t.Fatal("CreateCourse() swallowed a 400")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Fields["title"] != "Title is required!" {
		t.Errorf("Fields = %v, want the server's title message", apiErr.Fields)
	}
}

func TestDeleteLessonNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/lessons/70" {
			t.Errorf("request = %s %s, want DELETE /api/v1/lessons/70", r.Method, r.URL.Path)
		}
		writeEnvelope(w, http.StatusNotFound, false, "Lesson not found!", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	err := c.DeleteLesson(context.Background(), 70)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.NotFound() {
		t.Errorf("NotFound() = false for a 404")
	}
}

func TestGetCourseTree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "Course fetched successfully!", Course{
			ID: 12, Title: "Go 101", CategoryID: 3,
			Modules: []Module{
				{ID: 30, CourseID: 12, Title: "1. Week", Order: 1, Lessons: []lesson.Lesson{
					{ID: 70, ModuleID: 30, Title: "intro", Order: 1, Kind: lesson.KindHTML, Content: "<p>hi</p>"},
				}},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	course, err := c.GetCourse(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetCourse() = %v", err)
	}
	if len(course.Modules) != 1 || len(course.Modules[0].Lessons) != 1 {
		t.Fatalf("tree = %+v, want one module with one lesson", course)
	}
	if course.Modules[0].Lessons[0].Kind != lesson.KindHTML {
		t.Errorf("lesson kind = %q, want HTMLLesson", course.Modules[0].Lessons[0].Kind)
	}
}
