package util

import (
	"crypto/rand"
	"math/big"
)

// GenerateCourseCode draws a random uppercase alphanumeric join code.
func GenerateCourseCode() string {
	max := big.NewInt(int64(len(CourseCodeCharset)))
	b := make([]byte, CourseCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = CourseCodeCharset[n.Int64()]
	}
	return string(b)
}
