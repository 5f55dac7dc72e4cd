package domain

import "time"

type User struct {
	ID                 string
	Name               string
	Email              string
	RoleID             string
	TransactionPinHash string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
