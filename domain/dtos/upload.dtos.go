package dtos

type WebhookUploadRequest struct {
	Webhook string `params:"name" json:"webhook" validate:"required,max=64"`
}

type WebhookListResponse struct {
	Webhooks []string `json:"webhooks"`
}
