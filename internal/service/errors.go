package service

import "errors"

var (
	ErrInvalidAdminSecret = errors.New("invalid admin secret")
	ErrInvalidUnmuteMode  = errors.New("invalid unmute mode")
	ErrJobAlreadyRunning  = errors.New("an unmute job is already running")
	ErrJobNotFound        = errors.New("unmute job not found")
	ErrRecordNotFound     = errors.New("muted user record not found")
)
