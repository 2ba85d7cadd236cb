package entity

type User struct {
	Base
	Email        string `gorm:"unique"`
	PasswordHash string
	Name         string
}

func (User) TableName() string {
	return "users"
}
