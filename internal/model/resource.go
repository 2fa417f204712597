package model

type ResourceType string

const (
	Material ResourceType = "material"
	Module   ResourceType = "module"
	Book     ResourceType = "book"
)

// Resource is a standalone artifact owned by a teacher.
// swagger:model Resource
type Resource struct {
	BaseModel
	Type        ResourceType `gorm:"size:32;not null" json:"type"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Content     string       `gorm:"type:text" json:"content"`
	TeacherID   uint         `gorm:"index;not null" json:"teacherId"`
	Attachment  *string      `gorm:"size:255" json:"attachment,omitempty"`
	TeacherName string       `gorm:"->;-:migration" json:"teacherName,omitempty"`
}

func (Resource) TableName() string {
	return "resources"
}
