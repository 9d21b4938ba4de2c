package course

// Module represents one ordered section within a course.
type Module struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	CourseID    uint   `gorm:"index;not null" json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `gorm:"default:0" json:"order"` // Module position in course, 1..N
	IsDeleted   bool   `gorm:"default:false" json:"-"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID" json:"lessons"`
}
