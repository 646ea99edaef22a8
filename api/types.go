package api

type SendVerificationEmailRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type TaskResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
	Type   string `json:"type"`
}

type QueueRequest struct {
	Name string `uri:"name" binding:"required,queuename"`
}

type QueueResponse struct {
	Name      string `json:"name"`
	ServerURL string `json:"server_url,omitempty"`
	Status    string `json:"status,omitempty"`
}
