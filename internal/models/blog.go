package models

import (
	"time"

	"github.com/google/uuid"
)

type BlogPost struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string     `gorm:"type:text;not null"`
	Slug        string     `gorm:"type:text;not null;uniqueIndex"`
	Content     string     `gorm:"type:text"`
	ImageURL    string     `gorm:"type:text"`
	IsPublished bool       `gorm:"not null;default:false;index"`
	PublishedAt *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"not null;default:now()"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()"`
}

func (BlogPost) TableName() string { return "blog_posts" }
