package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"unicode"
)

// generateVerificationCode produce un codigo de 6 digitos decimales uniforme.
// No se garantiza unicidad entre usuarios: el codigo vive poco y se busca
// junto con su expiracion.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// generateResetToken produce un token hex de 20 bytes de entropia.
func generateResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func isValidVerificationCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
