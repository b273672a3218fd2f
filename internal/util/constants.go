package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)

// AnswerKeyPrefix 提交表单中题目答案的键前缀，如 q_42
const AnswerKeyPrefix = "q_"
