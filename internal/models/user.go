package models

import "time"

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Avatar       *string   `gorm:"type:varchar(500)" json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	OwnedProjects []Project       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Memberships   []ProjectMember `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedTasks  []Task          `gorm:"foreignKey:CreatedBy" json:"-"`
	AssignedTasks []Task          `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"-"`
}
