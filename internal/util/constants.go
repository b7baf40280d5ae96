package util

const (
	TimeFormat = "2006-01-02 15:04:05"

	// FileStampFormat suffixes generated file names.
	FileStampFormat = "20060102_150405"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
