package models

// EventNotification is the S3-style bucket notification delivered to the
// events webhook. MinIO and S3 share this shape; object keys may be
// percent-encoded.
type EventNotification struct {
	Records []EventRecord `json:"Records"`
}

type EventRecord struct {
	EventName string  `json:"eventName,omitempty"`
	S3        S3Entity `json:"s3"`
}

type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

type S3Object struct {
	Key  string `json:"key"`
	Size int64  `json:"size,omitempty"`
}
