package utils

import (
	"crypto/rand"
)

// CodeGenerator produces an OTP of the given length. The default is
// GenerateSecureOTP; deployments can swap in FixedCodeGenerator for
// sandbox environments where no SMS is delivered.
type CodeGenerator func(length int) (string, error)

func GenerateSecureOTP(length int) (string, error) {
	const otpChars = "0123456789"
	buffer := make([]byte, length)
	_, err := rand.Read(buffer)
	if err != nil {
		return "", err
	}

	otpCharsLength := len(otpChars)
	for i := 0; i < length; i++ {
		buffer[i] = otpChars[int(buffer[i])%otpCharsLength]
	}

	return string(buffer), nil
}

// FixedCodeGenerator always returns code, ignoring the requested length.
func FixedCodeGenerator(code string) CodeGenerator {
	return func(int) (string, error) {
		return code, nil
	}
}
