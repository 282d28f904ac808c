package dto

import "farmertwin/model"

type ReportIntrusionRequest struct {
	Animal   string               `json:"animal"`
	Location *model.AlertLocation `json:"location"`
	Severity string               `json:"severity"`
}

type ReportIntrusionResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Alert   *model.Alert `json:"alert"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type VAPIDKeyResponse struct {
	PublicKey string `json:"publicKey"`
}
