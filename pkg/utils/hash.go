package utils

import "golang.org/x/crypto/bcrypt"

const passwordCost = 12

func HashPassword(p string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(p), passwordCost)
	return string(bytes), err
}

func CheckPassword(hash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
	return err == nil
}
