package models

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mutuoclub/mutuo/config"
)

func Lock() (tx *gorm.DB) {
	return config.DataBase.Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockTable scopes a FOR UPDATE lock to one table inside an open
// transaction.
func LockTable(tx *gorm.DB, table string) *gorm.DB {
	return tx.Clauses(clause.Locking{
		Strength: "UPDATE",
		Table:    clause.Table{Name: table},
	})
}

type Reference struct {
	ID   int64
	Type string
}
