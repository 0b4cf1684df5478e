package domain

import "time"

type Review struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `json:"productId" gorm:"not null;index"`
	UserID    uint64    `json:"userId" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
