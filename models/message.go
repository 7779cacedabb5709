package models

type SignInput struct {
	Address string `json:"address" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type VerifyInput struct {
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	Message   string `json:"message" binding:"required"`
}
