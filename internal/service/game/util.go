package game

import (
	"github.com/google/uuid"
)

func GenID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("Failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// GenShortID 取 UUIDv7 的随机尾部作为短 ID
func GenShortID() string {
	id := GenID()

	return id[len(id)-8:]
}
