package course

import "time"

// Category groups courses in the catalog.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"unique;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
}

// Course represents a learning course owned by one instructor.
type Course struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Title        string    `json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	CategoryID   uint      `gorm:"index" json:"category_id"`
	InstructorID uint      `gorm:"index;not null" json:"instructor_id"`
	ImageURL     string    `json:"image_url"`
	IsPublished  bool      `gorm:"default:false" json:"is_published"`
	IsDeleted    bool      `gorm:"default:false" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Modules []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}
