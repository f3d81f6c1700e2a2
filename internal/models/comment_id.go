package models

import "crypto/rand"

const (
	commentIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	commentIDLength   = 10
)

// NewCommentPublicID generates the opaque identifier exposed for a comment
// in place of its database primary key.
func NewCommentPublicID() string {
	buf := make([]byte, commentIDLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i := range buf {
		buf[i] = commentIDAlphabet[int(buf[i])%len(commentIDAlphabet)]
	}
	return string(buf)
}
