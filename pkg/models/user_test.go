package models

import "testing"

func TestUser_PasswordRoundTrip(t *testing.T) {
	user := &User{}
	if err := user.SetPassword("correct horse battery staple"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !user.CheckPassword("correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if user.CheckPassword("wrong") {
		t.Error("wrong password accepted")
	}
}
