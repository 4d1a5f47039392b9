package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeImage       = "image/"
	MimePNG         = "image/png"
	MimeOctetStream = "application/octet-stream"
)
