package model

type Category struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
}

// DefaultCategories seeds the flat category list shown in the entry forms.
var DefaultCategories = []string{
	"الألبان", "المشروبات", "الحبوب", "المعلبات", "الزيوت",
	"اللحوم", "الخضروات", "الفواكه", "المنظفات", "أخرى",
}
