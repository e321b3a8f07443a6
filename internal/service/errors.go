package service

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrConflict           = errors.New("conflicting write, retry the request")
	ErrInvalidBackup      = errors.New("invalid backup file format")
)
