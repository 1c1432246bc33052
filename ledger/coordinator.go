package ledger

import (
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
)

// Result is the uniform outcome envelope of every ledger operation.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   error       `json:"-"`
}

func Ok(data interface{}) Result {
	return Result{Success: true, Data: data}
}

func Fail(err error) Result {
	return Result{Success: false, Error: err}
}

// RunAtomic executes fn inside one database transaction: a nil error
// commits every mutation made through tx, any error rolls all of them
// back. Multi-step ledger mutations must run through here; helpers called
// inside fn take tx and never open a scope of their own.
func RunAtomic(fn func(tx *gorm.DB) (interface{}, error)) Result {
	var data interface{}

	err := config.DataBase.Transaction(func(tx *gorm.DB) error {
		var err error
		data, err = fn(tx)
		return err
	})

	if err != nil {
		return Fail(err)
	}

	return Ok(data)
}
