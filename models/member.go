package models

import (
	"database/sql"
	"time"

	"github.com/mutuoclub/mutuo/config"
)

type Member struct {
	ID              int64          `json:"id" gorm:"primaryKey"`
	UID             string         `json:"uid"`
	Email           string         `json:"email"`
	Role            string         `json:"role"`
	State           string         `json:"state"`
	ReputationScore int32          `json:"reputation_score" gorm:"default:0"`
	Username        sql.NullString `json:"username"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (m *Member) GetBalance() *Balance {
	var balance *Balance

	config.DataBase.FirstOrCreate(&balance, Balance{MemberID: m.ID})

	return balance
}
