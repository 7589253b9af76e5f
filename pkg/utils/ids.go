package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateEventID gera o identificador curto usado nos eventos publicados
func GenerateEventID() (string, error) {
	return gonanoid.Generate(characters, 12)
}
