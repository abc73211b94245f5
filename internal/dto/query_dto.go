package dto

import "pillsee-be/pkg/pipeline/assembly"

type TextQueryRequest struct {
	Query     string `json:"query" validate:"required,max=500"`
	SessionId string `json:"session_id"`
}

type ImageQueryRequest struct {
	// Base64-encoded JPEG, PNG or WebP payload.
	Image     string `json:"image" validate:"required"`
	SessionId string `json:"session_id"`
}

type QueryResponse struct {
	Answer    *assembly.Answer `json:"answer"`
	SessionId string           `json:"session_id"`
}
