package models

type UploadResponse struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Size   int64  `json:"size"`
}

type EventResponse struct {
	OK bool `json:"ok"`
}
