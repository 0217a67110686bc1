package model

// SkillCategory 技能分类
type SkillCategory struct {
	BaseModel
	Name        string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Icon        string  `gorm:"size:50;default:'fas fa-tag'" json:"icon"`
	Skills      []Skill `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"skills,omitempty"`
}

func (SkillCategory) TableName() string {
	return "skill_categories"
}

// Skill 技能
// Prerequisites 为有向边 skill -> prerequisite，不校验环
type Skill struct {
	BaseModel
	Name                   string          `gorm:"size:200;not null;index" json:"name"`
	Description            string          `gorm:"type:text" json:"description"`
	CategoryID             uint            `gorm:"not null;index" json:"categoryId"`
	Category               *SkillCategory  `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
	ImageURL               string          `gorm:"size:500" json:"imageUrl"`
	DifficultyLevel        DifficultyLevel `gorm:"size:20;default:'beginner'" json:"difficultyLevel"`
	EstimatedDurationHours int             `gorm:"default:40" json:"estimatedDurationHours"`
	Prerequisites          []*Skill        `gorm:"many2many:skill_prerequisites;joinForeignKey:SkillID;joinReferences:PrerequisiteID;constraint:OnDelete:CASCADE" json:"prerequisites"`
}

func (Skill) TableName() string {
	return "skills"
}
