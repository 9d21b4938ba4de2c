// Package client talks to the remote content service. It is the only place
// in the authoring tree that knows about HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-resty/resty/v2"

	"lms/authoring/lesson"
)

// Course is the canonical course tree as the content service returns it.
type Course struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	CategoryID  uint     `json:"category_id"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	IsPublished bool     `json:"is_published"`
	Modules     []Module `json:"modules"`
}

// Module is one persisted module with its ordered lessons.
type Module struct {
	ID          uint            `json:"id"`
	CourseID    uint            `json:"course_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Order       int             `json:"order"`
	Lessons     []lesson.Lesson `json:"lessons"`
}

// CourseData is the payload for course create/update calls.
type CourseData struct {
	Title       string
	CategoryID  uint
	Description string
	ImagePath   string // local file to attach, empty to leave the image alone
	IsPublished bool
}

// ModuleData is the payload for module create/update calls.
type ModuleData struct {
	Title       string
	Description string
	Order       int
}

// ProgressFunc reports upload progress for file-carrying requests.
type ProgressFunc func(field string, sent, total int64)

// Client is a resty-backed client for the content service REST API.
type Client struct {
	http *resty.Client

	// OnUploadProgress, when set, receives progress callbacks for every
	// file part sent.
	OnUploadProgress ProgressFunc
}

// New returns a client rooted at baseURL authenticating with token.
func New(baseURL, token string) *Client {
	r := resty.New().
		SetBaseURL(baseURL + "/api/v1").
		SetAuthToken(token)
	return &Client{http: r}
}

// envelope is the response wrapper every content service endpoint uses.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(resp *resty.Response, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.IsError() {
			return &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
		}
		return fmt.Errorf("client: decode response: %w", err)
	}
	if resp.IsError() || !env.Status {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: env.Message}
		// Validation responses carry a field->message map in data.
		var fields map[string]string
		if len(env.Data) > 0 && json.Unmarshal(env.Data, &fields) == nil {
			apiErr.Fields = fields
		}
		return apiErr
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) courseForm(req *resty.Request, data CourseData) error {
	// The course endpoints take multipart even without an image part.
	req.SetMultipartFormData(map[string]string{
		"title":        data.Title,
		"category":     strconv.FormatUint(uint64(data.CategoryID), 10),
		"description":  data.Description,
		"is_published": strconv.FormatBool(data.IsPublished),
	})
	if data.ImagePath != "" {
		f, err := os.Open(data.ImagePath)
		if err != nil {
			return fmt.Errorf("client: open course image: %w", err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return fmt.Errorf("client: stat course image: %w", err)
		}
		req.SetFileReader("image", filepath.Base(data.ImagePath), c.wrapProgress("image", f, info.Size()))
	}
	return nil
}

// CreateCourse creates a course and returns the canonical object with its
// assigned identity.
func (c *Client) CreateCourse(ctx context.Context, data CourseData) (*Course, error) {
	req := c.http.R().SetContext(ctx)
	if err := c.courseForm(req, data); err != nil {
		return nil, err
	}
	resp, err := req.Post("/courses")
	if err != nil {
		return nil, fmt.Errorf("client: create course: %w", err)
	}
	var course Course
	if err := decode(resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse patches an existing course.
func (c *Client) UpdateCourse(ctx context.Context, id uint, data CourseData) (*Course, error) {
	req := c.http.R().SetContext(ctx)
	if err := c.courseForm(req, data); err != nil {
		return nil, err
	}
	resp, err := req.Patch(fmt.Sprintf("/courses/%d", id))
	if err != nil {
		return nil, fmt.Errorf("client: update course %d: %w", id, err)
	}
	var course Course
	if err := decode(resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// GetCourse fetches the full course tree, modules and lessons included.
func (c *Client) GetCourse(ctx context.Context, id uint) (*Course, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/courses/%d", id))
	if err != nil {
		return nil, fmt.Errorf("client: get course %d: %w", id, err)
	}
	var course Course
	if err := decode(resp, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateModule creates a module under courseID.
func (c *Client) CreateModule(ctx context.Context, courseID uint, data ModuleData) (*Module, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]interface{}{
			"title":       data.Title,
			"description": data.Description,
			"order":       data.Order,
			"course":      courseID,
		}).
		Post("/modules")
	if err != nil {
		return nil, fmt.Errorf("client: create module: %w", err)
	}
	var mod Module
	if err := decode(resp, &mod); err != nil {
		return nil, err
	}
	return &mod, nil
}

// UpdateModule patches an existing module.
func (c *Client) UpdateModule(ctx context.Context, id uint, data ModuleData) (*Module, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]interface{}{
			"title":       data.Title,
			"description": data.Description,
			"order":       data.Order,
		}).
		Patch(fmt.Sprintf("/modules/%d", id))
	if err != nil {
		return nil, fmt.Errorf("client: update module %d: %w", id, err)
	}
	var mod Module
	if err := decode(resp, &mod); err != nil {
		return nil, err
	}
	return &mod, nil
}

// DeleteModule removes a module and everything under it.
func (c *Client) DeleteModule(ctx context.Context, id uint) error {
	resp, err := c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/modules/%d", id))
	if err != nil {
		return fmt.Errorf("client: delete module %d: %w", id, err)
	}
	return decode(resp, nil)
}

func (c *Client) lessonForm(req *resty.Request, l *lesson.Lesson) error {
	fields, files, err := l.EncodeForm()
	if err != nil {
		return err
	}
	req.SetMultipartFormData(fields)
	for _, f := range files {
		req.SetFileReader(f.Field, f.Name, c.wrapProgress(f.Field, f.Reader, f.Size))
	}
	return nil
}

// CreateLesson creates a lesson under moduleID and returns the canonical
// object.
func (c *Client) CreateLesson(ctx context.Context, moduleID uint, l *lesson.Lesson) (*lesson.Lesson, error) {
	payload := *l
	payload.ModuleID = moduleID
	req := c.http.R().SetContext(ctx)
	if err := c.lessonForm(req, &payload); err != nil {
		return nil, err
	}
	resp, err := req.Post("/lessons")
	if err != nil {
		return nil, fmt.Errorf("client: create lesson: %w", err)
	}
	var saved lesson.Lesson
	if err := decode(resp, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateLesson patches an existing lesson.
func (c *Client) UpdateLesson(ctx context.Context, id uint, l *lesson.Lesson) (*lesson.Lesson, error) {
	req := c.http.R().SetContext(ctx)
	if err := c.lessonForm(req, l); err != nil {
		return nil, err
	}
	resp, err := req.Patch(fmt.Sprintf("/lessons/%d", id))
	if err != nil {
		return nil, fmt.Errorf("client: update lesson %d: %w", id, err)
	}
	var saved lesson.Lesson
	if err := decode(resp, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteLesson removes a lesson.
func (c *Client) DeleteLesson(ctx context.Context, id uint) error {
	resp, err := c.http.R().SetContext(ctx).Delete(fmt.Sprintf("/lessons/%d", id))
	if err != nil {
		return fmt.Errorf("client: delete lesson %d: %w", id, err)
	}
	return decode(resp, nil)
}

func (c *Client) wrapProgress(field string, r io.Reader, total int64) io.Reader {
	if c.OnUploadProgress == nil {
		return r
	}
	return &progressReader{r: r, field: field, total: total, report: c.OnUploadProgress}
}

type progressReader struct {
	r      io.Reader
	field  string
	sent   int64
	total  int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(p.field, p.sent, p.total)
	}
	return n, err
}
