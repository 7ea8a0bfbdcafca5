package dto

// UploadResponse acknowledges an accepted CSV upload
type UploadResponse struct {
	Message     string `json:"message"`
	TaskID      string `json:"task_id"`
	StatusCheck string `json:"status_check"`
}

// TaskStatusResponse reflects worker task state. Result is the batch report
// on success; Message carries progress or failure detail otherwise.
type TaskStatusResponse struct {
	Status  string `json:"status"`
	Result  any    `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
}

// TokenResponse carries an issued bearer token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
