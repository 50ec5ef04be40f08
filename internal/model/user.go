package model

import (
	"time"

	"github.com/lib/pq"
)

// DefaultAvatar is assigned to users that never uploaded a picture
const DefaultAvatar = "/images/user_img/user_img_default.jpg"

// User represents a storefront account
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Roles     pq.StringArray `json:"roles" gorm:"type:text[]"`
	Sex       string         `json:"sex,omitempty" gorm:"type:varchar(10)"`
	ImgPath   string         `json:"img_path" gorm:"type:varchar(255)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
