package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"picture_url"`

	PasswordHash string `gorm:"not null" json:"-"`

	IsActive bool `gorm:"default:true" json:"-"`
	IsAdmin  bool `gorm:"default:false" json:"-"`
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// GetUserByEmail looks up a user by email.
// Returns gorm.ErrRecordNotFound if email is empty or user doesn't exist.
func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	if email == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new active user with the given password.
func CreateUser(db *gorm.DB, email, name, password string) (*User, error) {
	user := &User{
		Email:    email,
		Name:     name,
		IsActive: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}
