package utils

import (
	"meetpoll-api/core/constants"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateMeetingID returns a short URL-safe id for shareable meeting links
func GenerateMeetingID() string {
	id, err := gonanoid.Generate(idAlphabet, constants.MeetingIDLength)
	if err != nil {
		return ""
	}
	return id
}
