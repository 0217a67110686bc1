package model

import (
	"time"
)

// BaseModel 所有业务表的公共字段
// IsActive 代替软删除：停用的记录对公共查询不可见，真正删除时由外键级联清理下游数据
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsActive  bool      `gorm:"default:true;index" json:"isActive"`
}

type DifficultyLevel string

const (
	Beginner     DifficultyLevel = "beginner"
	Intermediate DifficultyLevel = "intermediate"
	Advanced     DifficultyLevel = "advanced"
	Expert       DifficultyLevel = "expert"
)

func (d DifficultyLevel) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

// Rank 用于熟练度排序，数值越大越高
func (d DifficultyLevel) Rank() int {
	switch d {
	case Beginner:
		return 1
	case Intermediate:
		return 2
	case Advanced:
		return 3
	case Expert:
		return 4
	}
	return 0
}

// Color 前端徽章颜色
func (d DifficultyLevel) Color() string {
	switch d {
	case Beginner:
		return "success"
	case Intermediate:
		return "info"
	case Advanced:
		return "warning"
	case Expert:
		return "danger"
	}
	return "secondary"
}
